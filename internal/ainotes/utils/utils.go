// Вспомогательные функции общего назначения.
package utils

// SliceToSlice поэлементно преобразует срез одного типа в срез другого.
// Для nil на входе возвращается пустой срез.
func SliceToSlice[T any, U any](in *[]T, f func(*T) U) []U {
	if in == nil {
		return make([]U, 0)
	}
	out := make([]U, len(*in))
	for i, v := range *in {
		out[i] = f(&v)
	}
	return out
}

// CheckInSlice сообщает, содержится ли элемент в срезе.
func CheckInSlice[T comparable](el T, s []T) bool {
	for _, e := range s {
		if e == el {
			return true
		}
	}
	return false
}
