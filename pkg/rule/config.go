package rule

// Comparator is a relational operator used by threshold conditions.
type Comparator string

const (
	LessThan           Comparator = "<"
	LessThanOrEqual    Comparator = "<="
	Equal              Comparator = "="
	GreaterThan        Comparator = ">"
	GreaterThanOrEqual Comparator = ">="
)

// Valid reports whether c is a known comparator.
func (c Comparator) Valid() bool {
	switch c {
	case LessThan, LessThanOrEqual, Equal, GreaterThan, GreaterThanOrEqual:
		return true
	}
	return false
}

// Compare evaluates "a c b".
func (c Comparator) Compare(a, b float64) bool {
	switch c {
	case LessThan:
		return a < b
	case LessThanOrEqual:
		return a <= b
	case Equal:
		return a == b
	case GreaterThan:
		return a > b
	case GreaterThanOrEqual:
		return a >= b
	}
	return false
}

// ThresholdType selects how Conditions.Threshold is interpreted.
type ThresholdType string

const (
	ThresholdCount   ThresholdType = "count"
	ThresholdPercent ThresholdType = "percent"
)

// Valid reports whether t is a known threshold type.
func (t ThresholdType) Valid() bool {
	return t == ThresholdCount || t == ThresholdPercent
}

// Conditions is the condition block of a trigger rule.
type Conditions struct {
	Qualifier     Qualifier     `yaml:"qualifier" json:"qualifier"`
	Comparator    Comparator    `yaml:"comparator" json:"comparator"`
	Threshold     float64       `yaml:"threshold" json:"threshold"`
	ThresholdType ThresholdType `yaml:"thresholdType" json:"thresholdType"`
	CompareTo     Group         `yaml:"compareTo,omitempty" json:"compareTo,omitempty"`
	MaxTimes      *int          `yaml:"maxTimes,omitempty" json:"maxTimes,omitempty"` // nil means unlimited
}

// Limited reports whether the rule has a fire-count cap.
func (c Conditions) Limited() bool {
	return c.MaxTimes != nil
}
