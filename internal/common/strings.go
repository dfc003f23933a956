package common

// UnknownStr is the name rendered for enum values outside their declared range.
const UnknownStr = "unknown"
