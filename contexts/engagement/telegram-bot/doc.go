// Package telegrambot answers Telegram commands over the platform's data:
// account linking, the ustaz question queue, a user's own questions, upcoming
// events and the newest lessons.
package telegrambot
