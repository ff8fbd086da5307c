// Конвертация текстовых форматов (Markdown, HTML) в структуру документа
// редактора. Используется при стриминге ответов генерации и при импорте
// внешнего содержимого.
//
// Обе конвертации тотальны: любая входная строка даёт валидный список
// блочных нод, в худшем случае — один параграф с исходным текстом.
package convert

import (
	"regexp"

	"github.com/aisa-it/ainotes/internal/ainotes/editor/tiptap"
)

var htmlTagReg = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9]*)\b[^>]*>`)

// String конвертирует произвольную строку в ноды документа, определяя
// формат эвристикой: наличие открывающего HTML тега переключает на
// HTML парсер, иначе строка трактуется как Markdown.
func String(src string) []tiptap.Node {
	if htmlTagReg.MatchString(src) {
		return HTML(src)
	}
	return Markdown(src)
}
