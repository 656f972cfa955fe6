package model

// Kind tags every node variant in the view model.
type Kind uint

const (
	KindComponent Kind = iota
	KindExpressionBinding
	KindPropertyBinding
	KindTagBinding
	KindMessageHandlerScript
	KindCustomMethodScript
	KindTransformScript
	KindEventHandlerScript
	KindEventHandler
	KindProperty
	KindUnknown
	numKinds
)

var kindNames = [...]string{
	KindComponent:            "component",
	KindExpressionBinding:    "expression_binding",
	KindPropertyBinding:      "property_binding",
	KindTagBinding:           "tag_binding",
	KindMessageHandlerScript: "message_handler_script",
	KindCustomMethodScript:   "custom_method_script",
	KindTransformScript:      "transform_script",
	KindEventHandlerScript:   "event_handler_script",
	KindEventHandler:         "event_handler",
	KindProperty:             "property",
	KindUnknown:              "unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// KindSet is a bitmask of node kinds, used as a rule's capability set.
type KindSet uint32

// Kinds builds a set from the given kinds.
func Kinds(ks ...Kind) KindSet {
	var s KindSet
	for _, k := range ks {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool { return s&(1<<k) != 0 }

// With returns the set extended by the given kinds.
func (s KindSet) With(ks ...Kind) KindSet { return s | Kinds(ks...) }

// Common capability sets.
var (
	AllKinds     = Kinds(KindComponent, KindExpressionBinding, KindPropertyBinding, KindTagBinding, KindMessageHandlerScript, KindCustomMethodScript, KindTransformScript, KindEventHandlerScript, KindEventHandler, KindProperty, KindUnknown)
	BindingKinds = Kinds(KindExpressionBinding, KindPropertyBinding, KindTagBinding)
	ScriptKinds  = Kinds(KindMessageHandlerScript, KindCustomMethodScript, KindTransformScript, KindEventHandlerScript)
)
