package cnode

import "strconv"

// NodeKind classifies a declaration node delivered by a provider.
type NodeKind int

const (
	NodeOther NodeKind = iota
	NodeTranslationUnit
	NodeTypedefDecl
	NodeStructDecl
	NodeFieldDecl
	NodeUnionDecl
	NodeEnumDecl
	NodeFunctionDecl
	NodeVarDecl
)

var nodeKindNames = map[NodeKind]string{
	NodeOther:           "Other",
	NodeTranslationUnit: "TranslationUnit",
	NodeTypedefDecl:     "TypedefDecl",
	NodeStructDecl:      "StructDecl",
	NodeFieldDecl:       "FieldDecl",
	NodeUnionDecl:       "UnionDecl",
	NodeEnumDecl:        "EnumDecl",
	NodeFunctionDecl:    "FunctionDecl",
	NodeVarDecl:         "VarDecl",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// TypeKind classifies a type descriptor. The set mirrors the kinds a C front
// end distinguishes; the lowering engine supports only a subset of them.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBool
	TypeCharS
	TypeSChar
	TypeUChar
	TypeShort
	TypeUShort
	TypeInt
	TypeUInt
	TypeLong
	TypeULong
	TypeLongLong
	TypeULongLong
	TypeInt128
	TypeUInt128
	TypeFloat
	TypeDouble
	TypeLongDouble
	TypeTypedef
	TypeConstantArray
	TypeIncompleteArray
	TypePointer
	TypeElaborated
	TypeRecord
	TypeEnum
	TypeFunctionProto
	TypeFunctionNoProto
)

var typeKindNames = map[TypeKind]string{
	TypeInvalid:         "Invalid",
	TypeVoid:            "Void",
	TypeBool:            "Bool",
	TypeCharS:           "Char_S",
	TypeSChar:           "SChar",
	TypeUChar:           "UChar",
	TypeShort:           "Short",
	TypeUShort:          "UShort",
	TypeInt:             "Int",
	TypeUInt:            "UInt",
	TypeLong:            "Long",
	TypeULong:           "ULong",
	TypeLongLong:        "LongLong",
	TypeULongLong:       "ULongLong",
	TypeInt128:          "Int128",
	TypeUInt128:         "UInt128",
	TypeFloat:           "Float",
	TypeDouble:          "Double",
	TypeLongDouble:      "LongDouble",
	TypeTypedef:         "Typedef",
	TypeConstantArray:   "ConstantArray",
	TypeIncompleteArray: "IncompleteArray",
	TypePointer:         "Pointer",
	TypeElaborated:      "Elaborated",
	TypeRecord:          "Record",
	TypeEnum:            "Enum",
	TypeFunctionProto:   "FunctionProto",
	TypeFunctionNoProto: "FunctionNoProto",
}

func (k TypeKind) String() string {
	if s, ok := typeKindNames[k]; ok {
		return s
	}
	return "TypeKind(" + strconv.Itoa(int(k)) + ")"
}
