package knowledge

// descriptorImpacts maps qualitative descriptors onto [-1, 1]. Positive values mean the
// described property increases. The table is never mutated.
var descriptorImpacts = map[string]float64{
	"strongly_stimulated": 0.8,
	"stimulated":          0.5,
	"enhanced":            0.5,
	"slightly_stimulated": 0.2,
	"neutral":             0.0,
	"slightly_suppressed": -0.2,
	"reduced":             -0.3,
	"suppressed":          -0.4,
	"inhibited":           -0.5,
	"strongly_suppressed": -0.7,
	"severely_suppressed": -0.8,
	"slightly_increased":  0.2,
	"increased":           0.4,
	"strongly_increased":  0.7,
}

// DescriptorImpact returns the numeric impact of a descriptor.
// Unknown descriptors are treated as neutral.
func DescriptorImpact(descriptor string) float64 {
	return descriptorImpacts[descriptor]
}

// KnownDescriptor reports whether the vocabulary defines descriptor.
func KnownDescriptor(descriptor string) bool {
	_, ok := descriptorImpacts[descriptor]
	return ok
}
