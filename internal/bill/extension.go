package bill

import "strings"

var acceptedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// IsAcceptedExtension reports whether fileName ends in a jpg, jpeg or png
// extension, ignoring case.
func IsAcceptedExtension(fileName string) bool {
	idx := strings.LastIndex(fileName, ".")
	if idx == -1 {
		return false
	}
	return acceptedExtensions[strings.ToLower(fileName[idx+1:])]
}
