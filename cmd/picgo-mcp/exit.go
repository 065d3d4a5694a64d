package main

type exitError struct {
	code    int
	message string
}

func (e exitError) Error() string {
	return e.message
}

func exitWithCode(code int, message string) error {
	return exitError{code: code, message: message}
}
