package parser

// Interner maintains a pool of canonical strings so that values which
// repeat throughout a ledger file, account names and currency codes in
// particular, share one string instance instead of allocating per
// occurrence.
type Interner struct {
	pool map[string]string
}

// NewInterner creates a string interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of the string.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// InternBytes converts a byte slice to a string and interns it. This is
// the common case when materializing tokens from the lexer.
func (i *Interner) InternBytes(b []byte) string {
	s := string(b)
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the pool.
func (i *Interner) Size() int {
	return len(i.pool)
}
