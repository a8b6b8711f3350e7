package main

import (
	"net/http"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"

	"github.com/pkg/profile"
)

// waitSigint blocks the current thread until a SIGINT appears.
func waitSigint() {
	signalSyn := make(chan os.Signal, 1)
	signalAck := make(chan struct{})

	signal.Notify(signalSyn, os.Interrupt)

	go func() {
		<-signalSyn
		close(signalAck)
	}()

	<-signalAck
}

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("Usage: %s configuration.toml", os.Args[0])
	}

	ctx, service, listen, profiling, err := parseConfiguration(os.Args[1])
	if err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Fatal("Failed to parse config")
	}

	if profiling {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	server := &http.Server{
		Addr:    listen,
		Handler: service,
	}

	go func() {
		if serveErr := server.ListenAndServe(); serveErr != http.ErrServerClosed {
			log.WithError(serveErr).Fatal("Mapper service failed")
		}
	}()

	log.WithFields(log.Fields{
		"listen":     listen,
		"cid_length": ctx.CidLength(),
		"method":     ctx.Method(),
	}).Info("Mapper service is up")

	waitSigint()
	log.Info("Shutting down..")

	_ = server.Close()
	service.Close()
	ctx.Close()
}
