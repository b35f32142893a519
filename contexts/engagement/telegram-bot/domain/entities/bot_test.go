package entities

import "testing"

func TestMessageCommand(t *testing.T) {
	cases := map[string]string{
		"/start":               "start",
		"/questions@hanafibot": "questions",
		"/myquestions extra":   "myquestions",
		"answer text":          "",
		"/":                    "",
	}
	for text, want := range cases {
		if got := (Message{Text: text}).Command(); got != want {
			t.Fatalf("Command(%q) = %q, want %q", text, got, want)
		}
	}
}
