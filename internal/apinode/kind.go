package apinode

// Kind is the declaration kind reported by the header parser.
// Values mirror clang cursor kind names, so unknown kinds pass through untouched.
type Kind string

const (
	KindTranslationUnit Kind = "TRANSLATION_UNIT"
	KindFunction        Kind = "FUNCTION_DECL"
	KindMacro           Kind = "MACRO_DEFINITION"
	KindStruct          Kind = "STRUCT_DECL"
	KindUnion           Kind = "UNION_DECL"
	KindEnum            Kind = "ENUM_DECL"
	KindVariable        Kind = "VAR_DECL"
	KindTypedef         Kind = "TYPEDEF_DECL"
	KindParam           Kind = "PARM_DECL"
	KindField           Kind = "FIELD_DECL"
	KindEnumConstant    Kind = "ENUM_CONSTANT_DECL"
)

// IsAggregate reports whether k is struct, union or enum.
func (k Kind) IsAggregate() bool {
	switch k {
	case KindStruct, KindUnion, KindEnum:
		return true
	default:
		return false
	}
}

// IsMacro reports whether k is a macro definition.
func (k Kind) IsMacro() bool {
	return k == KindMacro
}

func (k Kind) String() string {
	if k == "" {
		return "<none>"
	}
	return string(k)
}
