// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health server address in format [host]:[port]
//	-driver storage driver (memory, postgres, sqlite)
//	-d database DSN
//	-private-key RSA private key path
//	-symmetric-key hex encoded token key
//	-c/-config json file path with configs
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "24h", "30m")
//	-clock-skew allowed clock skew for token expiry (e.g., "30s")
//	-hash-cost bcrypt cost
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var driver, databaseDSN string
	var privateKeyPath, symmetricKey string
	var jsonConfigPath string
	var tokenIssuer string
	var tokenDuration, clockSkew, requestTimeout time.Duration
	var hashCost int

	fs := flag.NewFlagSet("go-divide", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&driver, "driver", "", "Storage driver (memory, postgres, sqlite)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&privateKeyPath, "private-key", "", "RSA private key path")
	fs.StringVar(&symmetricKey, "symmetric-key", "", "Hex encoded token signing key")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 24h, 30m)")
	fs.DurationVar(&clockSkew, "clock-skew", 0, "Allowed clock skew (e.g., 30s)")
	fs.IntVar(&hashCost, "hash-cost", 0, "bcrypt cost")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			PrivateKeyPath:   privateKeyPath,
			SymmetricKey:     symmetricKey,
			TokenIssuer:      tokenIssuer,
			TokenDuration:    tokenDuration,
			ClockSkew:        clockSkew,
			PasswordHashCost: hashCost,
		},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// It returns an empty string when neither Host nor Port are set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
