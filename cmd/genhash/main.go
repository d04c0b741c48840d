package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	h, err := bcrypt.GenerateFromPassword([]byte("invtrack2026"), 12)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}
