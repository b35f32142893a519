// Package questionservice runs the public Q&A: visitors ask, the ustaz
// answers from the API or the Telegram bot.
package questionservice
