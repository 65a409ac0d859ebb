package diagnostics

import (
	"fmt"

	"github.com/funvibe/sophia/internal/token"
)

type ErrorCode string

// Declaration and program structure errors.
const (
	ErrD001 ErrorCode = "D001" // ClassNotDeclared
	ErrD002 ErrorCode = "D002" // NoMainClass
	ErrD003 ErrorCode = "D003" // NoConstructorInMainClass
	ErrD004 ErrorCode = "D004" // MainConstructorCantHaveArgs
	ErrD005 ErrorCode = "D005" // MainClassCantExtend
	ErrD006 ErrorCode = "D006" // CannotExtendFromMainClass
	ErrD007 ErrorCode = "D007" // ConstructorNotSameNameAsClass
	ErrD008 ErrorCode = "D008" // CannotHaveEmptyList
	ErrD009 ErrorCode = "D009" // DuplicateListId
	ErrD010 ErrorCode = "D010" // MissingReturnStatement
)

// Expression errors.
const (
	ErrE001 ErrorCode = "E001" // VarNotDeclared
	ErrE002 ErrorCode = "E002" // MemberNotAvailableInClass
	ErrE003 ErrorCode = "E003" // ListMemberNotFound
	ErrE004 ErrorCode = "E004" // MemberAccessOnNoneObjOrListType
	ErrE005 ErrorCode = "E005" // ListIndexNotInt
	ErrE006 ErrorCode = "E006" // ListAccessByIndexOnNoneList
	ErrE007 ErrorCode = "E007" // CantUseExprAsIndexOfMultiTypeList
	ErrE008 ErrorCode = "E008" // UnsupportedOperandType
	ErrE009 ErrorCode = "E009" // LeftSideNotLvalue
	ErrE010 ErrorCode = "E010" // IncDecOperandNotLvalue
	ErrE011 ErrorCode = "E011" // CallOnNoneFptrType
	ErrE012 ErrorCode = "E012" // CantUseValueOfVoidMethod
	ErrE013 ErrorCode = "E013" // MethodCallNotMatchDefinition
	ErrE014 ErrorCode = "E014" // ConstructorArgsNotMatchDefinition
)

// Statement errors.
const (
	ErrS001 ErrorCode = "S001" // ConditionNotBool
	ErrS002 ErrorCode = "S002" // UnsupportedTypeForPrint
	ErrS003 ErrorCode = "S003" // ReturnValueNotMatchMethodReturnType
	ErrS004 ErrorCode = "S004" // ContinueBreakNotInLoop
	ErrS005 ErrorCode = "S005" // ForeachCantIterateNoneList
	ErrS006 ErrorCode = "S006" // ForeachListElementsNotSameType
	ErrS007 ErrorCode = "S007" // ForeachVarNotMatchList
)

var kindNames = map[ErrorCode]string{
	ErrD001: "ClassNotDeclared",
	ErrD002: "NoMainClass",
	ErrD003: "NoConstructorInMainClass",
	ErrD004: "MainConstructorCantHaveArgs",
	ErrD005: "MainClassCantExtend",
	ErrD006: "CannotExtendFromMainClass",
	ErrD007: "ConstructorNotSameNameAsClass",
	ErrD008: "CannotHaveEmptyList",
	ErrD009: "DuplicateListId",
	ErrD010: "MissingReturnStatement",

	ErrE001: "VarNotDeclared",
	ErrE002: "MemberNotAvailableInClass",
	ErrE003: "ListMemberNotFound",
	ErrE004: "MemberAccessOnNoneObjOrListType",
	ErrE005: "ListIndexNotInt",
	ErrE006: "ListAccessByIndexOnNoneList",
	ErrE007: "CantUseExprAsIndexOfMultiTypeList",
	ErrE008: "UnsupportedOperandType",
	ErrE009: "LeftSideNotLvalue",
	ErrE010: "IncDecOperandNotLvalue",
	ErrE011: "CallOnNoneFptrType",
	ErrE012: "CantUseValueOfVoidMethod",
	ErrE013: "MethodCallNotMatchDefinition",
	ErrE014: "ConstructorArgsNotMatchDefinition",

	ErrS001: "ConditionNotBool",
	ErrS002: "UnsupportedTypeForPrint",
	ErrS003: "ReturnValueNotMatchMethodReturnType",
	ErrS004: "ContinueBreakNotInLoop",
	ErrS005: "ForeachCantIterateNoneList",
	ErrS006: "ForeachListElementsNotSameType",
	ErrS007: "ForeachVarNotMatchList",
}

var errorMessages = map[ErrorCode]string{
	ErrD001: "class %s is not declared",
	ErrD002: "no class named %s was declared",
	ErrD003: "class %s has no constructor",
	ErrD004: "constructor of class %s can't take arguments",
	ErrD005: "class %s can't extend another class",
	ErrD006: "class %s can't extend entry class %s",
	ErrD007: "constructor %s must be named after class %s",
	ErrD008: "list type of %s can't be empty",
	ErrD009: "duplicate element name %s in list type",
	ErrD010: "method %s has no return statement",

	ErrE001: "variable %s is not declared",
	ErrE002: "class %s has no member %s",
	ErrE003: "list has no element named %s",
	ErrE004: "member %s accessed on a value that is neither an object nor a list",
	ErrE005: "list index must be int, got %s",
	ErrE006: "index access on a value of type %s",
	ErrE007: "index of a list with different element types must be a constant int in range",
	ErrE008: "unsupported operand type for %s",
	ErrE009: "left side of assignment is not assignable",
	ErrE010: "operand of %s is not assignable",
	ErrE011: "call on a value of type %s",
	ErrE012: "can't use the value of a void method",
	ErrE013: "arguments don't match the method definition",
	ErrE014: "arguments don't match the constructor of class %s",

	ErrS001: "condition must be bool, got %s",
	ErrS002: "can't print a value of type %s",
	ErrS003: "returned %s doesn't match method return type %s",
	ErrS004: "%s outside of a loop",
	ErrS005: "foreach over a value of type %s",
	ErrS006: "foreach over a list with different element types",
	ErrS007: "loop variable of type %s doesn't match list element type %s",
}

// Kind returns the taxonomy name of the code.
func (c ErrorCode) Kind() string {
	if k, ok := kindNames[c]; ok {
		return k
	}
	return string(c)
}

// DiagnosticError is one accumulated, recoverable diagnostic.
type DiagnosticError struct {
	Code  ErrorCode
	Token token.Token
	File  string
	Args  []interface{}
}

// NewError builds a diagnostic. Args fill the message template of the code.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Args: args}
}

func (e *DiagnosticError) Message() string {
	format, ok := errorMessages[e.Code]
	if !ok || format == "" {
		return e.Code.Kind()
	}
	return fmt.Sprintf(format, e.Args...)
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%d:%d: %s %s: %s", e.Token.Line, e.Token.Column, e.Code, e.Code.Kind(), e.Message())
}
