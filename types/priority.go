package types

// Priority is a parser's preference class used to disambiguate overloads
// when more than one ParameterNode could accept the same token (spec §4.B,
// §4.D ranking criterion 2). Higher values are preferred.
type Priority int

const (
	PriorityLowest Priority = iota
	PriorityDefault
	PriorityHighest
)

// Int returns the numeric weight used when summing parser priorities across
// a candidate's parameter nodes.
func (p Priority) Int() int { return int(p) }

func (p Priority) String() string {
	switch p {
	case PriorityHighest:
		return "highest"
	case PriorityDefault:
		return "default"
	case PriorityLowest:
		return "lowest"
	default:
		return "unknown"
	}
}
