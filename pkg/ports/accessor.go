package ports

// VariableAccessor reads and writes named variables of a participant object
// without going through its capability surface.
type VariableAccessor interface {
	GetInt(target any, name string) (int, error)
	GetFloat(target any, name string) (float64, error)
	GetBool(target any, name string) (bool, error)
	GetString(target any, name string) (string, error)

	// Set writes value into the named variable, converting between numeric kinds when needed.
	Set(target any, name string, value any) error
}
