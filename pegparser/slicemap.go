package pegparser

type mapItem struct {
	data interface{}
	idx  int
}

type SliceItem struct {
	key  interface{}
	data interface{}
}

func (s SliceItem) Key() string {
	k, _ := s.key.(string)
	return k
}

// SliceMap is a map that remembers insertion order.
type SliceMap struct {
	mp map[interface{}]*mapItem
	sl []*SliceItem
}

func NewSliceMap() *SliceMap {
	return &SliceMap{
		mp: make(map[interface{}]*mapItem),
		sl: make([]*SliceItem, 0),
	}
}

func (m *SliceMap) ForceGet(key interface{}) interface{} {
	v, found := m.mp[key]
	if found {
		return v.data
	}
	return nil
}

func (m *SliceMap) Get(key interface{}) (interface{}, bool) {
	v, found := m.mp[key]
	if found {
		return v.data, true
	}
	return nil, false
}

func (m *SliceMap) Set(key, v interface{}) {
	old, found := m.mp[key]
	if found {
		old.data = v
		m.sl[old.idx].data = v
		return
	}
	m.sl = append(m.sl, &SliceItem{key: key, data: v})
	m.mp[key] = &mapItem{
		data: v,
		idx:  len(m.sl) - 1,
	}
}

func (m *SliceMap) Has(key interface{}) bool {
	_, found := m.mp[key]
	return found
}

func (m *SliceMap) Delete(key interface{}) {
	old, found := m.mp[key]
	if found {
		m.DeleteAt(old.idx)
	}
}

func (m *SliceMap) Size() int {
	return len(m.sl)
}

func (m *SliceMap) Items() []*SliceItem {
	return m.sl
}

func (m *SliceMap) GetAt(idx int) (interface{}, bool) {
	if idx < 0 || idx >= len(m.sl) {
		return nil, false
	}
	return m.sl[idx].data, true
}

func (m *SliceMap) DeleteAt(idx int) {
	if idx < 0 || idx >= len(m.sl) {
		return
	}
	old := m.sl[idx]
	m.sl = append(m.sl[0:idx], m.sl[idx+1:]...)
	delete(m.mp, old.key)
	// shift the positions of everything after the removed slot
	for i := idx; i < len(m.sl); i++ {
		m.mp[m.sl[i].key].idx = i
	}
}

// InsertAt places a new key at position idx. An existing key is updated in place.
func (m *SliceMap) InsertAt(idx int, key, v interface{}) {
	if m.Has(key) {
		m.Set(key, v)
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(m.sl) {
		idx = len(m.sl)
	}
	m.sl = append(m.sl, nil)
	copy(m.sl[idx+1:], m.sl[idx:])
	m.sl[idx] = &SliceItem{key: key, data: v}
	m.mp[key] = &mapItem{data: v, idx: idx}
	for i := idx + 1; i < len(m.sl); i++ {
		m.mp[m.sl[i].key].idx = i
	}
}
