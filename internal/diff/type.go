package diff

import (
	"fmt"
)

// Type is the kind of a diff event.
type Type uint16

const (
	TypeUnknown Type = iota

	AddAPI
	ReduceAPI
	AddDoc
	ReduceDoc

	FunctionReturnChange
	FunctionParamAdd
	FunctionParamReduce
	FunctionParamTypeChange
	FunctionParamNameChange

	DefineNameChange
	DefineTextChange

	StructNameChange
	StructMemberAdd
	StructMemberReduce
	StructMemberTypeChange
	StructMemberNameChange

	UnionNameChange
	UnionMemberAdd
	UnionMemberReduce
	UnionMemberTypeChange
	UnionMemberNameChange

	EnumNameChange
	EnumMemberAdd
	EnumMemberReduce
	EnumMemberValueChange
	EnumMemberNameChange

	VariableNameChange
	VariableTypeChange
	VariableValueChange
	ConstantNameChange
	ConstantTypeChange
	ConstantValueChange

	TypedefNameTypeChange

	DocTagAddToGroupNAToHave
	DocTagAddToGroupHaveToNA
	DocTagAddToGroupAToB
	DocTagBriefNAToHave
	DocTagBriefHaveToNA
	DocTagBriefAToB
	DocTagDeprecatedNAToHave
	DocTagDeprecatedHaveToNA
	DocTagDeprecatedAToB
	DocTagFileNAToHave
	DocTagFileHaveToNA
	DocTagFileAToB
	DocTagLibraryNAToHave
	DocTagLibraryHaveToNA
	DocTagLibraryAToB
	DocTagParamNAToHave
	DocTagParamHaveToNA
	DocTagParamNameAToB
	DocTagParamAToB
	DocTagPermissionNAToHave
	DocTagPermissionHaveToNA
	DocTagPermissionRangeSmaller
	DocTagPermissionRangeBigger
	DocTagPermissionRangeChange
	DocTagSinceNAToHave
	DocTagSinceHaveToNA
	DocTagSinceAToB
	DocTagSyscapNAToHave
	DocTagSyscapHaveToNA
	DocTagSyscapAToB
	DocTagLeftBraceNAToHave
	DocTagLeftBraceHaveToNA
	DocTagRightBraceNAToHave
	DocTagRightBraceHaveToNA

	typeCount
)

var typeNames = [typeCount]string{
	TypeUnknown: "UNKNOWN",

	AddAPI:    "ADD_API",
	ReduceAPI: "REDUCE_API",
	AddDoc:    "ADD_DOC",
	ReduceDoc: "REDUCE_DOC",

	FunctionReturnChange:    "FUNCTION_RETURN_CHANGE",
	FunctionParamAdd:        "FUNCTION_PARAM_ADD",
	FunctionParamReduce:     "FUNCTION_PARAM_REDUCE",
	FunctionParamTypeChange: "FUNCTION_PARAM_TYPE_CHANGE",
	FunctionParamNameChange: "FUNCTION_PARAM_NAME_CHANGE",

	DefineNameChange: "DEFINE_NAME_CHANGE",
	DefineTextChange: "DEFINE_TEXT_CHANGE",

	StructNameChange:       "STRUCT_NAME_CHANGE",
	StructMemberAdd:        "STRUCT_MEMBER_ADD",
	StructMemberReduce:     "STRUCT_MEMBER_REDUCE",
	StructMemberTypeChange: "STRUCT_MEMBER_TYPE_CHANGE",
	StructMemberNameChange: "STRUCT_MEMBER_NAME_CHANGE",

	UnionNameChange:       "UNION_NAME_CHANGE",
	UnionMemberAdd:        "UNION_MEMBER_ADD",
	UnionMemberReduce:     "UNION_MEMBER_REDUCE",
	UnionMemberTypeChange: "UNION_MEMBER_TYPE_CHANGE",
	UnionMemberNameChange: "UNION_MEMBER_NAME_CHANGE",

	EnumNameChange:        "ENUM_NAME_CHANGE",
	EnumMemberAdd:         "ENUM_MEMBER_ADD",
	EnumMemberReduce:      "ENUM_MEMBER_REDUCE",
	EnumMemberValueChange: "ENUM_MEMBER_VALUE_CHANGE",
	EnumMemberNameChange:  "ENUM_MEMBER_NAME_CHANGE",

	VariableNameChange:  "VARIABLE_NAME_CHANGE",
	VariableTypeChange:  "VARIABLE_TYPE_CHANGE",
	VariableValueChange: "VARIABLE_VALUE_CHANGE",
	ConstantNameChange:  "CONSTANT_NAME_CHANGE",
	ConstantTypeChange:  "CONSTANT_TYPE_CHANGE",
	ConstantValueChange: "CONSTANT_VALUE_CHANGE",

	TypedefNameTypeChange: "TYPEDEF_NAME_TYPE_CHANGE",

	DocTagAddToGroupNAToHave:     "DOC_TAG_ADDTOGROUP_NA_TO_HAVE",
	DocTagAddToGroupHaveToNA:     "DOC_TAG_ADDTOGROUP_HAVE_TO_NA",
	DocTagAddToGroupAToB:         "DOC_TAG_ADDTOGROUP_A_TO_B",
	DocTagBriefNAToHave:          "DOC_TAG_BRIEF_NA_TO_HAVE",
	DocTagBriefHaveToNA:          "DOC_TAG_BRIEF_HAVE_TO_NA",
	DocTagBriefAToB:              "DOC_TAG_BRIEF_A_TO_B",
	DocTagDeprecatedNAToHave:     "DOC_TAG_DEPRECATED_NA_TO_HAVE",
	DocTagDeprecatedHaveToNA:     "DOC_TAG_DEPRECATED_HAVE_TO_NA",
	DocTagDeprecatedAToB:         "DOC_TAG_DEPRECATED_A_TO_B",
	DocTagFileNAToHave:           "DOC_TAG_FILE_NA_TO_HAVE",
	DocTagFileHaveToNA:           "DOC_TAG_FILE_HAVE_TO_NA",
	DocTagFileAToB:               "DOC_TAG_FILE_A_TO_B",
	DocTagLibraryNAToHave:        "DOC_TAG_LIBRARY_NA_TO_HAVE",
	DocTagLibraryHaveToNA:        "DOC_TAG_LIBRARY_HAVE_TO_NA",
	DocTagLibraryAToB:            "DOC_TAG_LIBRARY_A_TO_B",
	DocTagParamNAToHave:          "DOC_TAG_PARAM_NA_TO_HAVE",
	DocTagParamHaveToNA:          "DOC_TAG_PARAM_HAVE_TO_NA",
	DocTagParamNameAToB:          "DOC_TAG_PARAM_NAME_A_TO_B",
	DocTagParamAToB:              "DOC_TAG_PARAM_A_TO_B",
	DocTagPermissionNAToHave:     "DOC_TAG_PERMISSION_NA_TO_HAVE",
	DocTagPermissionHaveToNA:     "DOC_TAG_PERMISSION_HAVE_TO_NA",
	DocTagPermissionRangeSmaller: "DOC_TAG_PERMISSION_RANGE_SMALLER",
	DocTagPermissionRangeBigger:  "DOC_TAG_PERMISSION_RANGE_BIGGER",
	DocTagPermissionRangeChange:  "DOC_TAG_PERMISSION_RANGE_CHANGE",
	DocTagSinceNAToHave:          "DOC_TAG_SINCE_NA_TO_HAVE",
	DocTagSinceHaveToNA:          "DOC_TAG_SINCE_HAVE_TO_NA",
	DocTagSinceAToB:              "DOC_TAG_SINCE_A_TO_B",
	DocTagSyscapNAToHave:         "DOC_TAG_SYSCAP_NA_TO_HAVE",
	DocTagSyscapHaveToNA:         "DOC_TAG_SYSCAP_HAVE_TO_NA",
	DocTagSyscapAToB:             "DOC_TAG_SYSCAP_A_TO_B",
	DocTagLeftBraceNAToHave:      "DOC_TAG_LEFT_BRACE_NA_TO_HAVE",
	DocTagLeftBraceHaveToNA:      "DOC_TAG_LEFT_BRACE_HAVE_TO_NA",
	DocTagRightBraceNAToHave:     "DOC_TAG_RIGHT_BRACE_NA_TO_HAVE",
	DocTagRightBraceHaveToNA:     "DOC_TAG_RIGHT_BRACE_HAVE_TO_NA",
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, typeCount)
	for i, name := range typeNames {
		m[name] = Type(i)
	}
	return m
}()

func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint16(t))
}

// ParseType is the inverse of String.
func ParseType(s string) (Type, error) {
	if t, ok := typeByName[s]; ok {
		return t, nil
	}
	return TypeUnknown, fmt.Errorf("unknown diff type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Category is the coarse modification label of the tabular report.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryAPIAdded
	CategoryAPIRemoved
	CategoryPrototype
	CategoryDoc
	CategoryConstraint
)

func (c Category) String() string {
	switch c {
	case CategoryAPIAdded:
		return "api added"
	case CategoryAPIRemoved:
		return "api removed"
	case CategoryPrototype:
		return "prototype changed"
	case CategoryDoc:
		return "doc changed"
	case CategoryConstraint:
		return "constraint changed"
	default:
		return ""
	}
}

// Category groups the type for reporting.
func (t Type) Category() Category {
	switch {
	case t == AddAPI:
		return CategoryAPIAdded
	case t == ReduceAPI:
		return CategoryAPIRemoved
	case t >= FunctionReturnChange && t <= TypedefNameTypeChange:
		return CategoryPrototype
	case t >= DocTagDeprecatedNAToHave && t <= DocTagDeprecatedAToB,
		t >= DocTagPermissionNAToHave && t <= DocTagSyscapAToB:
		return CategoryConstraint
	case t == AddDoc || t == ReduceDoc || (t >= DocTagAddToGroupNAToHave && t < typeCount):
		return CategoryDoc
	default:
		return CategoryNone
	}
}

// Mark is the operation mark of the tabular report: added, removed or changed.
func (t Type) Mark() string {
	switch t {
	case AddAPI, AddDoc, FunctionParamAdd, StructMemberAdd, UnionMemberAdd, EnumMemberAdd:
		return "+"
	case ReduceAPI, ReduceDoc, FunctionParamReduce, StructMemberReduce, UnionMemberReduce, EnumMemberReduce:
		return "-"
	default:
		return "~"
	}
}

// Types returns every known type in declaration order.
func Types() []Type {
	out := make([]Type, 0, typeCount-1)
	for t := TypeUnknown + 1; t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}
