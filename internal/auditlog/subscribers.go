package auditlog

// registry holds subscriber callbacks in registration order.
type registry struct {
	nextID  uint64
	entries []subscription
}

type subscription struct {
	id uint64
	fn func([]Record)
}

func (r *registry) add(fn func([]Record)) uint64 {
	r.nextID++
	r.entries = append(r.entries, subscription{id: r.nextID, fn: fn})
	return r.nextID
}

func (r *registry) remove(id uint64) {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *registry) clone() registry {
	return registry{nextID: r.nextID, entries: append([]subscription(nil), r.entries...)}
}

func (r registry) notify(records []Record) {
	for _, e := range r.entries {
		if e.fn != nil {
			e.fn(cloneRecords(records))
		}
	}
}
