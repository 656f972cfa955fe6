package model

// Attrs is an insertion-ordered attribute map. Keys are rendered relative
// paths below the owning node (for example "position.x" or "config.polling").
type Attrs struct {
	keys []string
	vals map[string]any
}

// NewAttrs returns an empty attribute map.
func NewAttrs() *Attrs { return &Attrs{vals: map[string]any{}} }

// Set stores the value, preserving first-insertion order.
func (a *Attrs) Set(key string, v any) {
	if _, ok := a.vals[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.vals[key] = v
}

// Get returns the value stored under key.
func (a *Attrs) Get(key string) (any, bool) {
	v, ok := a.vals[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (a *Attrs) GetString(key string) (string, bool) {
	v, ok := a.vals[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the keys in insertion order. Callers must not mutate it.
func (a *Attrs) Keys() []string { return a.keys }

// Len returns the number of attributes.
func (a *Attrs) Len() int { return len(a.keys) }

// Delete removes key, preserving the order of the remaining keys.
func (a *Attrs) Delete(key string) {
	if _, ok := a.vals[key]; !ok {
		return
	}
	delete(a.vals, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Map returns a plain map copy, losing order. Intended for serialization.
func (a *Attrs) Map() map[string]any {
	m := make(map[string]any, len(a.keys))
	for k, v := range a.vals {
		m[k] = v
	}
	return m
}
