package grok

import "fmt"

// SummarizeMessages собирает диалог для суммаризации текста заметки.
func SummarizeMessages(text string) []Message {
	return []Message{
		{Role: "system", Content: "You are a helpful summarizer."},
		{Role: "user", Content: fmt.Sprintf("Summarize this:\n%s", text)},
	}
}

// GenerateMessages собирает диалог для генерации текста по запросу
// пользователя. noteTitle и noteContext (плоское оглавление документа)
// дают модели представление о заметке, в которую пишется результат.
func GenerateMessages(text, noteTitle, noteContext string) []Message {
	system := "You are a writing assistant embedded in a note-taking app. " +
		"Respond in Markdown. Do not add preamble or explanations, output only the requested content."
	user := fmt.Sprintf("Note title: %s\nNote outline:\n%s\n\nRequest: %s", noteTitle, noteContext, text)
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

// AutocompleteMessages собирает диалог для продолжения набираемого текста.
func AutocompleteMessages(currentText, noteTitle, noteContext string) []Message {
	system := "You are an autocomplete engine in a note-taking app. " +
		"Continue the user's text naturally. Output only the continuation, no quotes, no preamble."
	user := fmt.Sprintf("Note title: %s\nNote outline:\n%s\n\nContinue this text:\n%s", noteTitle, noteContext, currentText)
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
