package tiptap

import "fmt"

// Flatten рекурсивно нормализует произвольное содержимое в плоский слайс
// валидных нод документа. Функция тотальна над пятью формами входа:
//
//  1. nil — пустой слайс;
//  2. слайс ([]Node, []any) — каждый элемент нормализуется, результаты
//     склеиваются без вложенных слайсов;
//  3. строка или число — одна текстовая нода;
//  4. уже валидная нода (Node, *Node) — ее Content нормализуется на месте,
//     сама нода возвращается как единственный элемент;
//  5. все прочее — best-effort приведение к тексту; значение, которое не
//     удается классифицировать, отбрасывается.
//
// Повторная нормализация уже плоского валидного слайса возвращает его
// структурно неизменным (идемпотентность).
func Flatten(content any) []Node {
	switch v := content.(type) {
	case nil:
		return []Node{}
	case []Node:
		flat := make([]Node, 0, len(v))
		for _, n := range v {
			flat = append(flat, Flatten(n)...)
		}
		return flat
	case []any:
		flat := make([]Node, 0, len(v))
		for _, item := range v {
			flat = append(flat, Flatten(item)...)
		}
		return flat
	case string:
		return []Node{NewText(v)}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return []Node{NewText(fmt.Sprint(v))}
	case Node:
		if !IsValid(v) {
			return []Node{}
		}
		if v.Content != nil {
			v.Content = Flatten(v.Content)
		}
		return []Node{v}
	case *Node:
		if v == nil {
			return []Node{}
		}
		return Flatten(*v)
	case fmt.Stringer:
		return []Node{NewText(v.String())}
	default:
		return []Node{}
	}
}
