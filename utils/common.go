package utils

// Tabler is implemented by every gorm model.
type Tabler interface {
	TableName() string
}

func Ptr[T any](t T) *T {
	return &t
}

func OrDefault[T any](t *T, def T) T {
	if t == nil {
		return def
	}
	return *t
}

func EmptyThenNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
