package main

import (
	"github.com/rs/zerolog/log"
)

func main() {
	if err := root().Execute(); err != nil {
		log.Fatal().Err(err).Send()
	}
}
