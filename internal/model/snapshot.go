package model

// Concept keys synthesized from primitives after extraction.
const (
	KeyDebt   = "debt"
	KeyFCF    = "fcf"
	KeyEBITDA = "ebitda"
)

// Snapshot keys carried alongside extracted concepts.
const (
	KeyPrice = "price"
	KeyTax   = "tax"
	KeyWACC  = "wacc"
)

// Snapshot is a flat mapping from concept key to nullable value for one
// reporting period. Every configured concept key is present; a nil value
// means "not disclosed this period", which is distinct from zero.
type Snapshot map[string]*float64

// Get returns the value for key, nil when absent or unobserved.
func (s Snapshot) Get(key string) *float64 {
	return s[key]
}

// OrZero returns the value for key, or 0 when nil.
func (s Snapshot) OrZero(key string) float64 {
	if v := s[key]; v != nil {
		return *v
	}
	return 0
}

// Set stores a concrete value for key.
func (s Snapshot) Set(key string, v float64) {
	s[key] = &v
}

// Has reports whether key holds an observed value.
func (s Snapshot) Has(key string) bool {
	return s[key] != nil
}

// Ptr returns a pointer to v, for building snapshots in place.
func Ptr(v float64) *float64 {
	return &v
}
