package middleware

import "context"

// callerIDKey is the key used to store the authenticated caller's ID in the request context.
const callerIDKey = contextKey("callerID")

// GetCallerIDFromCtx retrieves the authenticated caller ID from the request context.
// It returns the caller ID and a boolean indicating if it was found.
func GetCallerIDFromCtx(ctx context.Context) (string, bool) {
	callerID, ok := ctx.Value(callerIDKey).(string)
	if !ok || callerID == "" {
		return "", false
	}
	return callerID, true
}
