package game

// Pair is an unordered pair of dot indices, stored with Lo < Hi.
type Pair struct {
	Lo, Hi int
}

// MakePair normalizes (i, j) so that MakePair(i, j) == MakePair(j, i).
func MakePair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{Lo: i, Hi: j}
}

// ConnectResult reports what TryConnect did.
type ConnectResult int

const (
	ConnectIgnored   ConnectResult = iota // self-loop or index out of range
	ConnectAdded                          // new pair inserted
	ConnectDuplicate                      // pair already present, set unchanged
)

// Validator tracks the pairs linked during one level attempt over a pattern
// of n dots.
type Validator struct {
	n     int
	pairs map[Pair]struct{}
}

// NewValidator returns an empty validator for a pattern of n dots.
func NewValidator(n int) *Validator {
	v := &Validator{}
	v.Reset(n)
	return v
}

// Reset forgets every connection and rebinds the validator to n dots.
func (v *Validator) Reset(n int) {
	v.n = n
	v.pairs = make(map[Pair]struct{})
}

// TryConnect records the unordered pair {i, j}.
func (v *Validator) TryConnect(i, j int) ConnectResult {
	if i == j || i < 0 || j < 0 || i >= v.n || j >= v.n {
		return ConnectIgnored
	}
	p := MakePair(i, j)
	if _, ok := v.pairs[p]; ok {
		return ConnectDuplicate
	}
	v.pairs[p] = struct{}{}
	return ConnectAdded
}

// Has reports whether {i, j} has been connected.
func (v *Validator) Has(i, j int) bool {
	_, ok := v.pairs[MakePair(i, j)]
	return ok
}

// Len is the number of distinct pairs connected.
func (v *Validator) Len() int { return len(v.pairs) }

// IsComplete is true iff every consecutive pair {i, i+1} is connected.
// Extra non-consecutive pairs neither help nor hurt.
func (v *Validator) IsComplete() bool {
	return len(v.Missing()) == 0
}

// Missing lists the consecutive pairs not yet connected, in pattern order.
func (v *Validator) Missing() []Pair {
	var out []Pair
	for i := 0; i+1 < v.n; i++ {
		if !v.Has(i, i+1) {
			out = append(out, Pair{Lo: i, Hi: i + 1})
		}
	}
	return out
}
