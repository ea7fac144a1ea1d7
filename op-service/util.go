package op_service

// PrefixEnvVar adds the given prefix to the environment variable name, separated by an underscore.
func PrefixEnvVar(prefix, suffix string) []string {
	return []string{prefix + "_" + suffix}
}
