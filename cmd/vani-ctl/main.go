package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"vani/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon control socket")
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		fmt.Println("usage: vani-ctl [--socket PATH] trigger | stop | say <text> | file <audio path>")
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: args[0]}
	if msg.Cmd == "say" || msg.Cmd == "file" {
		msg.Arg = strings.Join(args[1:], " ")
	}

	if err := ipc.Send(*socket, msg); err != nil {
		fmt.Println("vani-daemon not running:", err)
		os.Exit(1)
	}
}
