// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package e2e_test

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/gatekeeper/pkg/signer"
)

var _ = Describe("Signature verification", Label("e2e", "signature"), func() {
	const signedBody = `{"amount":125,"currency":"EUR"}`

	signedRequest := func(secret, method, uri, body string, at time.Time, clientID string) *http.Response {
		bundle := signer.Sign(secret, method, uri, []byte(body), at)
		bundle.ClientID = clientID
		return authSubrequest(method, uri, "app.example.com", body,
			func(r *http.Request) { bundle.Apply(r.Header) })
	}

	Describe("a correctly signed request", func() {
		It("is allowed with the client ID hint", func() {
			resp := signedRequest(alphaSecret, http.MethodPost, "/api/secure", signedBody, time.Now(), alphaClient.ID)
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Client-ID")).To(Equal(alphaClient.ID))
			Expect(resp.Header.Get("X-Auth-Client-Name")).To(Equal("alpha-service"))
			Expect(resp.Header.Get("X-Auth-Route-ID")).To(Equal(secureRoute.ID))
		})

		It("is allowed without a hint via secret discovery", func() {
			resp := signedRequest(alphaSecret, http.MethodPost, "/api/secure", signedBody, time.Now(), "")
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Client-ID")).To(Equal(alphaClient.ID))
		})

		It("covers the query string", func() {
			By("Signing the exact request URI including its query")
			resp := signedRequest(alphaSecret, http.MethodPost, "/api/secure?session=9", signedBody, time.Now(), alphaClient.ID)
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			By("Sending a signature made for a different query")
			bundle := signer.Sign(alphaSecret, http.MethodPost, "/api/secure?session=9", []byte(signedBody), time.Now())
			resp = authSubrequest(http.MethodPost, "/api/secure?session=10", "app.example.com", signedBody,
				func(r *http.Request) { bundle.Apply(r.Header) })
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("invalid_signature"))
		})
	})

	Describe("rejected signatures", func() {
		It("denies a signature under the wrong secret", func() {
			resp := signedRequest("not-the-secret", http.MethodPost, "/api/secure", signedBody, time.Now(), "")
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("invalid_signature"))
		})

		It("denies a stale timestamp", func() {
			resp := signedRequest(alphaSecret, http.MethodPost, "/api/secure", signedBody,
				time.Now().Add(-10*time.Minute), alphaClient.ID)
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("signature_expired"))
		})

		It("denies a timestamp from the future", func() {
			resp := signedRequest(alphaSecret, http.MethodPost, "/api/secure", signedBody,
				time.Now().Add(10*time.Minute), alphaClient.ID)
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("signature_expired"))
		})

		It("attributes a body swap to tampering", func() {
			By("Signing one body and sending another")
			bundle := signer.Sign(alphaSecret, http.MethodPost, "/api/secure", []byte(signedBody), time.Now())
			bundle.ClientID = alphaClient.ID
			resp := authSubrequest(http.MethodPost, "/api/secure", "app.example.com", `{"amount":99999,"currency":"EUR"}`,
				func(r *http.Request) { bundle.Apply(r.Header) })

			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("body_tampered"))
		})

		It("treats an API key as missing credentials on a signature-only method", func() {
			resp := authSubrequest(http.MethodPost, "/api/secure", "app.example.com", signedBody,
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+alphaKey) })
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("missing_credentials"))
		})
	})

	Describe("methods accepting either credential", func() {
		It("allows an API key", func() {
			resp := authSubrequest(http.MethodDelete, "/api/secure", "app.example.com", "",
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+alphaKey) })
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Client-ID")).To(Equal(alphaClient.ID))
		})

		It("allows a signature", func() {
			resp := signedRequest(alphaSecret, http.MethodDelete, "/api/secure", "", time.Now(), alphaClient.ID)
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Client-ID")).To(Equal(alphaClient.ID))
		})
	})
})
