package ecs

// Query is a View declared as a system field. RegisterSystem initializes it by
// registering the view described by T, or reusing it if another system or
// caller already did.
type Query[T any] struct {
	*View[T]
}

// NewQuery returns a Query over the view described by T.
func NewQuery[T any](w *World) (*Query[T], error) {
	q := &Query[T]{}
	if err := q.Init(w); err != nil {
		return nil, err
	}
	return q, nil
}

// Init binds the Query to w.
func (q *Query[T]) Init(w *World) error {
	v, err := GetOrRegisterView[T](w)
	if err != nil {
		return err
	}
	q.View = v
	return nil
}
