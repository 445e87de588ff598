// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stacklok/gatekeeper/pkg/signer"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Produce the signature headers for one request",
	Long: `Compute the signature bundle a client must attach to a request against a
signature-protected route. The path must be the exact request URI the client
will send, query string included:

  gatekeeper sign --secret s-xyz --method POST --path '/api/secure?v=1' --body '{}'`,
	RunE: signCmdFunc,
}

var (
	signSecret   string
	signMethod   string
	signPath     string
	signBody     string
	signBodyFile string
	signClientID string
	signAsCurl   bool
)

func init() {
	signCmd.Flags().StringVar(&signSecret, "secret", "", "Client shared secret")
	signCmd.Flags().StringVar(&signMethod, "method", "GET", "HTTP method of the request")
	signCmd.Flags().StringVar(&signPath, "path", "", "Request URI, query string included")
	signCmd.Flags().StringVar(&signBody, "body", "", "Request body")
	signCmd.Flags().StringVar(&signBodyFile, "body-file", "", "Read the request body from a file")
	signCmd.Flags().StringVar(&signClientID, "client-id", "",
		"Include X-Client-Id so the server skips the secret scan")
	signCmd.Flags().BoolVar(&signAsCurl, "curl", false, "Print curl -H arguments instead of bare headers")

	if err := signCmd.MarkFlagRequired("secret"); err != nil {
		panic(err)
	}
	if err := signCmd.MarkFlagRequired("path"); err != nil {
		panic(err)
	}
	signCmd.MarkFlagsMutuallyExclusive("body", "body-file")
}

func signCmdFunc(_ *cobra.Command, _ []string) error {
	body := []byte(signBody)
	if signBodyFile != "" {
		data, err := os.ReadFile(signBodyFile)
		if err != nil {
			return fmt.Errorf("failed to read body file: %w", err)
		}
		body = data
	}

	bundle := signer.Sign(signSecret, signMethod, signPath, body, time.Now())
	bundle.ClientID = signClientID

	headers := [][2]string{
		{"X-Signature", bundle.Signature},
		{"X-Timestamp", bundle.Timestamp},
		{"X-Body-Hash", bundle.BodyHash},
	}
	if bundle.ClientID != "" {
		headers = append(headers, [2]string{"X-Client-Id", bundle.ClientID})
	}

	for _, h := range headers {
		if signAsCurl {
			fmt.Printf("-H '%s: %s' ", h[0], h[1])
		} else {
			fmt.Printf("%s: %s\n", h[0], h[1])
		}
	}
	if signAsCurl {
		fmt.Println()
	}
	return nil
}
