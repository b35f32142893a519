// Package accountservice owns user accounts, profiles and JWT sessions.
//
// Other contexts reach accounts through bootstrap bridges; only this module
// reads or writes the users table.
package accountservice
