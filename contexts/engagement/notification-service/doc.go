// Package notificationservice owns per-user notifications, notification
// settings and browser push subscriptions, and delivers notifications to
// Telegram. Its Announcer worker turns lesson, event and question events
// into notifications.
package notificationservice
