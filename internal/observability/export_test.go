package observability

// ParseLogLevelForTest exposes parseLogLevel to the external test package.
var ParseLogLevelForTest = parseLogLevel
