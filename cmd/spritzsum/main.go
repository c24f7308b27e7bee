package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"git.gammaspectra.live/P2Pool/spritz/spritz"
	"git.gammaspectra.live/P2Pool/spritz/utils"
	fasthex "github.com/tmthrgd/go-hex"
)

func sum(outputLength int, data []byte) []byte {
	h, err := spritz.New(outputLength)
	if err != nil {
		utils.Fatalf("spritzsum: %s", err)
	}
	_, _ = utils.WriteNoEscape(h, data)
	return utils.SumNoEscape(h, make([]byte, 0, outputLength))
}

func main() {
	outputLength := flag.Int("n", 32, "digest length in bytes, 1 to 255")
	debugLog := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debugLog {
		utils.GlobalLogLevel |= utils.LogLevelDebug
	}

	if flag.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			utils.Fatalf("spritzsum: stdin: %s", err)
		}
		fmt.Printf("%s  -\n", fasthex.EncodeUpperToString(sum(*outputLength, data)))
		return
	}

	failed := false
	for _, name := range flag.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			utils.Errorf("spritzsum", "%s", err)
			failed = true
			continue
		}
		utils.Debugf("spritzsum", "%s: %d bytes", name, len(data))
		fmt.Printf("%s  %s\n", fasthex.EncodeUpperToString(sum(*outputLength, data)), name)
	}
	if failed {
		os.Exit(1)
	}
}
