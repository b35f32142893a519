// Package eventservice announces offline gatherings. Public reads only
// ever see events that have not started yet.
package eventservice
