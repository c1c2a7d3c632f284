package testing

import (
	"fmt"
)

// GroupRequest records one ReadGroup call made against a MockAccessor.
type GroupRequest struct {
	Group uint64
	First uint64
	Count uint64
	Fill  float32
}

// MockAccessor serves synthetic group data from memory.
//
// Value(group, elem) produces the element at 1-based position elem of the
// data array of 1-based group. Elements listed in Nulls are reported as
// undefined and replaced with the caller's fill value.
type MockAccessor struct {
	NumGroups uint64
	Value     func(group, elem uint64) float32
	Nulls     map[uint64]bool   // groups whose first element is undefined
	Fail      map[uint64]error  // groups whose read fails
	Short     map[uint64]int    // groups that return this many fewer values
	Keys      map[string]string // header string keywords
	KeyErr    error             // returned by every HeaderString call when set

	Requests []GroupRequest
	KeyReads []string
}

// ReadGroup implements the accessor contract.
func (m *MockAccessor) ReadGroup(group, first, count uint64, fill float32) ([]float32, bool, error) {
	m.Requests = append(m.Requests, GroupRequest{Group: group, First: first, Count: count, Fill: fill})

	if err, ok := m.Fail[group]; ok {
		return nil, false, err
	}
	if group < 1 || group > m.NumGroups {
		return nil, false, fmt.Errorf("group %d out of range 1..%d", group, m.NumGroups)
	}

	n := count
	if short, ok := m.Short[group]; ok {
		n -= uint64(short)
	}
	values := make([]float32, n)
	for i := range values {
		values[i] = m.Value(group, first+uint64(i))
	}

	anyNull := false
	if m.Nulls[group] && first == 1 && n > 0 {
		values[0] = fill
		anyNull = true
	}
	return values, anyNull, nil
}

// HeaderString implements the header source contract.
func (m *MockAccessor) HeaderString(key string) (string, bool, error) {
	m.KeyReads = append(m.KeyReads, key)
	if m.KeyErr != nil {
		return "", false, m.KeyErr
	}
	v, ok := m.Keys[key]
	return v, ok, nil
}

// Groups returns the group numbers requested so far, in call order.
func (m *MockAccessor) Groups() []uint64 {
	out := make([]uint64, len(m.Requests))
	for i, r := range m.Requests {
		out[i] = r.Group
	}
	return out
}

// Encode is a Value function whose output identifies group and element,
// group*1000 + elem, exact in float32 for small files.
func Encode(group, elem uint64) float32 {
	return float32(group*1000 + elem)
}
