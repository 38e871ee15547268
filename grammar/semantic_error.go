package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	ErrNoRule              = newSemanticError("a grammar needs at least one rule")
	ErrUndefinedSymbol     = newSemanticError("undefined symbol")
	ErrDuplicateProduction = newSemanticError("duplicate production")
	ErrUnknownStartSymbol  = newSemanticError("the start symbol has no rule")
)
