package headless

// Toast keeps the messages shown to the user.
type Toast struct {
	messages []string
}

func (t *Toast) ShowError(message string) {
	t.messages = append(t.messages, message)
}

func (t *Toast) Last() string {
	if len(t.messages) == 0 {
		return ""
	}
	return t.messages[len(t.messages)-1]
}
