package server

const (
	Green      = "\033[32m"
	Blue       = "\033[34m"
	Yellow     = "\033[33m"
	ResetColor = "\033[0m"
)

var methodColors = map[string]string{
	"GET":  Green,
	"POST": Blue,
}

// colourMethod wraps an HTTP method in its terminal colour for DEV output.
func colourMethod(method string) string {
	colour, ok := methodColors[method]
	if !ok {
		colour = Yellow
	}
	return colour + method + ResetColor
}
