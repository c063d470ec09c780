package main

func main() {
	if err := Execute(); err != nil {
		fatalAbort(err.Error())
	}
}
