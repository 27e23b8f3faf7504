package ipc

//go:generate go run github.com/xivgo/server/cmd/opcodegen opcodes.json opcodes_gen.go
