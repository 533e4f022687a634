package httpapi

// maxUploadBytes caps the multipart request body. Zero means unlimited: the
// whole file is read into memory.
var maxUploadBytes int64

// SetMaxUploadBytes configures the request body cap (0 or negative disables it).
func SetMaxUploadBytes(n int64) {
	if n < 0 {
		n = 0
	}
	maxUploadBytes = n
}

// multipartMemory is the in-memory threshold handed to ParseMultipartForm.
const multipartMemory = 32 << 20

// corsAllowedOrigins restricts which origins get CORS headers. Empty allows any.
var corsAllowedOrigins []string

// SetCORSOrigins configures the origin allow-list; "*" or an empty list allows any origin.
func SetCORSOrigins(origins []string) {
	corsAllowedOrigins = corsAllowedOrigins[:0]
	for _, o := range origins {
		if o == "*" {
			corsAllowedOrigins = nil
			return
		}
		corsAllowedOrigins = append(corsAllowedOrigins, o)
	}
}
