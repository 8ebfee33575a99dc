package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tallowteam/Tallow-sub001/internal/telemetry"
	"github.com/tallowteam/Tallow-sub001/pkg/hybridkem"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
	"github.com/tallowteam/Tallow-sub001/pkg/ratchet"
	"github.com/tallowteam/Tallow-sub001/pkg/session"
)

func ratchetCommand() {
	fs := ratchetFlagSet()
	messages := fs.Int("messages", 6, "Number of ping-pong messages to exchange")
	verbose := fs.Bool("verbose", false, "Print each header and plaintext")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error")
	_ = fs.Parse(os.Args[2:])

	logger := telemetry.NewLogger("tallow-demo", parseLevel(*logLevel), "text", os.Stderr)
	collector := telemetry.NewCollector(telemetry.Labels{"component": "ratchet-demo"})

	fmt.Println("=== Tallow Double Ratchet demo ===")

	responderKP, err := hybridkem.Generate()
	if err != nil {
		fatal("hybridkem.Generate (responder)", err)
	}
	initiatorKP, err := hybridkem.Generate()
	if err != nil {
		fatal("hybridkem.Generate (initiator)", err)
	}

	// The two peers run the hybrid KEM once, against the responder's
	// published public key, to seed the ratchet's root key. In a real
	// deployment this is the responder's signed prekey; here the
	// freshly generated keypair stands in for it.
	ciphertext, sharedSecret, err := hybridkem.Encapsulate(responderKP.PublicKey())
	if err != nil {
		fatal("hybridkem.Encapsulate", err)
	}
	defer primitives.Zeroize(sharedSecret)

	responderSecret, err := hybridkem.Decapsulate(responderKP, ciphertext)
	if err != nil {
		fatal("hybridkem.Decapsulate", err)
	}
	defer primitives.Zeroize(responderSecret)

	registry := session.NewRegistry()
	defer registry.CloseAll()
	budget := session.NewSkipBudget()

	initSess, err := ratchet.NewInitiatorSession(sharedSecret, initiatorKP, responderKP.PublicKey())
	if err != nil {
		fatal("NewInitiatorSession", err)
	}
	respSess, err := ratchet.NewResponderSession(responderSecret, responderKP)
	if err != nil {
		fatal("NewResponderSession", err)
	}

	initSess.SetObserver(budget.ForPeer("responder"))
	respSess.SetObserver(budget.ForPeer("initiator"))

	if err := registry.Register("responder", initSess); err != nil {
		fatal("Register", err)
	}
	if err := registry.Register("initiator", respSess); err != nil {
		fatal("Register", err)
	}

	aad := []byte("tallow-demo")

	for i := 0; i < *messages; i++ {
		plaintext := []byte(fmt.Sprintf("ping %d", i))
		header, ciphertext, err := initSess.Send(aad, plaintext)
		if err != nil {
			fatal("Send", err)
		}
		collector.MessageSent()

		got, err := respSess.Receive(aad, header, ciphertext)
		if err != nil {
			fatal("Receive", err)
		}
		collector.MessageReceived()

		if *verbose {
			logger.Info("exchanged message", telemetry.Fields{"n": header.N, "plaintext": string(got)})
		}

		reply := []byte(fmt.Sprintf("pong %d", i))
		rHeader, rCiphertext, err := respSess.Send(aad, reply)
		if err != nil {
			fatal("Send (reply)", err)
		}
		collector.MessageSent()

		gotReply, err := initSess.Receive(aad, rHeader, rCiphertext)
		if err != nil {
			fatal("Receive (reply)", err)
		}
		collector.MessageReceived()

		if *verbose {
			logger.Info("exchanged reply", telemetry.Fields{"n": rHeader.N, "plaintext": string(gotReply)})
		}
	}

	snap := collector.Snapshot()
	fmt.Printf("Exchanged %d round trips (%d messages sent, %d received)\n", *messages, snap.MessagesSent, snap.MessagesRecv)
	fmt.Printf("Registry holds %d active sessions\n", registry.Len())
}

func parseLevel(s string) logrus.Level {
	switch s {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func fatal(op string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", op, err)
	os.Exit(1)
}
