package chunk

// Mask is a per-row selection vector. It never reorders or copies rows,
// it only marks which ones the filter kept.
type Mask struct {
	bits Column[bool]
}

func NewMask(capacity int) *Mask {
	m := &Mask{}
	m.bits.grow(capacity)
	return m
}

// Resize sets the row count and clears every bit.
func (m *Mask) Resize(cnt int) {
	m.bits.Reset()
	m.bits.Resize(cnt)
	bits := m.bits.Slice()
	for i := range bits {
		bits[i] = false
	}
}

func (m *Mask) Len() int {
	return m.bits.Len()
}

func (m *Mask) Set(idx int, val bool) {
	m.bits.Set(idx, val)
}

func (m *Mask) Get(idx int) bool {
	return m.bits.Get(idx)
}

func (m *Mask) SetAll(val bool) {
	bits := m.bits.Slice()
	for i := range bits {
		bits[i] = val
	}
}

func (m *Mask) CountTrue() int {
	cnt := 0
	for _, b := range m.bits.Slice() {
		if b {
			cnt++
		}
	}
	return cnt
}

// Bits exposes the raw per-row booleans. The slice aliases the mask.
func (m *Mask) Bits() []bool {
	return m.bits.Slice()
}
