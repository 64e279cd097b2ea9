package accounts

// ResolveScript evaluates a display script: a string whose {field}
// references are replaced by resolved values, for example
// "{username}: {passcode}". The result is treated as secret when any
// referenced field is secret. The label is the script itself, which names
// fields but never contains their values.
func ResolveScript(a *Account, script string) (Secret, error) {
	value, err := a.evaluate(script, 0)
	if err != nil {
		return Secret{}, err
	}

	isSecret := false
	for _, match := range fieldRef.FindAllString(script, -1) {
		name, _ := SplitName(match[1 : len(match)-1])
		if a.IsSecret(name) {
			isSecret = true
			break
		}
	}

	return Secret{Value: value, IsSecret: isSecret, Label: script}, nil
}
