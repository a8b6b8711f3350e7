package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/quiclb/quiclb-go/pkg/quiclb"
)

// mustContext parses the configuration descriptor and creates a Context.
func mustContext(txt string) *quiclb.Context {
	conf, err := quiclb.ParseConfig(txt)
	if err != nil {
		log.WithError(err).Fatal("Parsing configuration errored")
	}

	ctx, err := quiclb.NewContext(conf)
	if err != nil {
		log.WithError(err).Fatal("Creating codec context errored")
	}

	return ctx
}

// generateCid for the "generate" CLI option.
func generateCid(args []string) {
	if len(args) != 1 && len(args) != 2 {
		printUsage()
	}

	ctx := mustContext(args[0])

	cid := make([]byte, ctx.CidLength())
	if len(args) == 2 {
		prefill, err := hex.DecodeString(args[1])
		if err != nil {
			log.WithError(err).Fatal("Decoding the prefill errored")
		} else if len(prefill) != len(cid) {
			log.WithFields(log.Fields{
				"expected": len(cid),
				"got":      len(prefill),
			}).Fatal("Prefill length does not match the CID length")
		}
		copy(cid, prefill)
	} else if _, err := rand.Read(cid); err != nil {
		log.WithError(err).Fatal("Reading random octets errored")
	}

	ctx.GenerateCid(cid)

	fmt.Println(hex.EncodeToString(cid))
}

// verifyCid for the "verify" CLI option.
func verifyCid(args []string) {
	if len(args) != 2 {
		printUsage()
	}

	ctx := mustContext(args[0])

	cid, err := hex.DecodeString(args[1])
	if err != nil {
		log.WithError(err).Fatal("Decoding the CID errored")
	}

	if serverId := ctx.VerifyCid(cid); serverId == quiclb.UnknownServerId {
		log.Fatal("The CID cannot have been generated under this configuration")
	} else {
		fmt.Printf("%d\n", serverId)
	}
}

// printUsage of quiclb-tool and exit with an error code afterwards.
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, "Usage of %s generate|verify:\n\n", os.Args[0])

	_, _ = fmt.Fprintf(os.Stderr, "%s generate configuration [prefill-hex]\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  Generates one CID under the given configuration descriptor. The nonce and\n")
	_, _ = fmt.Fprintf(os.Stderr, "  \"for server use\" octets are taken from prefill-hex or drawn randomly.\n\n")

	_, _ = fmt.Fprintf(os.Stderr, "%s verify configuration cid-hex\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  Recovers the server ID embedded in the given CID.\n\n")

	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
	}

	switch os.Args[1] {
	case "generate":
		generateCid(os.Args[2:])

	case "verify":
		verifyCid(os.Args[2:])

	default:
		printUsage()
	}
}
