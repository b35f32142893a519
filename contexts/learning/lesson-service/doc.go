// Package lessonservice owns the ustaz profile and the lesson catalog
// (category, topic, module, lesson) together with lesson comments and
// per-device playback progress.
package lessonservice
