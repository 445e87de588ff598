// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package e2e_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Authorization decisions", Label("e2e", "authz"), func() {
	Describe("public methods", func() {
		It("allows anonymous access and names the matched route", func() {
			By("Sending an unauthenticated GET for a public method")
			resp := authSubrequest(http.MethodGet, "/api/public/feed", "app.example.com", "", nil)
			defer resp.Body.Close()

			By("Verifying the allow and the forwarded route header")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Route-ID")).To(Equal(publicRoute.ID))
			Expect(resp.Header.Get("X-Auth-Client-ID")).To(BeEmpty(),
				"public access must not attribute a client")
			Expect(resp.Header.Get("X-Auth-Client-Name")).To(BeEmpty())
		})

		It("still requires credentials for protected methods on the same route", func() {
			resp := authSubrequest(http.MethodPost, "/api/public/feed", "app.example.com", `{"title":"x"}`, nil)
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("missing_credentials"))
		})
	})

	Describe("API key authentication", func() {
		It("allows a permitted client with a Bearer key", func() {
			resp := authSubrequest(http.MethodPost, "/api/public/feed", "app.example.com", `{"title":"x"}`,
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+alphaKey) })
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Client-ID")).To(Equal(alphaClient.ID))
			Expect(resp.Header.Get("X-Auth-Client-Name")).To(Equal("alpha-service"))
			Expect(resp.Header.Get("X-Auth-Route-ID")).To(Equal(publicRoute.ID))
		})

		It("accepts the key from the api_key query parameter", func() {
			resp := authSubrequest(http.MethodPost, "/api/public/feed?api_key="+alphaKey, "app.example.com", `{}`, nil)
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Client-ID")).To(Equal(alphaClient.ID))
		})

		It("denies an unknown key", func() {
			resp := authSubrequest(http.MethodPost, "/api/public/feed", "app.example.com", `{}`,
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer key-made-up") })
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("invalid_credentials"))
		})
	})

	Describe("route matching", func() {
		It("denies requests no route protects", func() {
			resp := authSubrequest(http.MethodGet, "/definitely/not/registered", "app.example.com", "", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("no_route"))
		})

		It("does not let a wildcard pattern claim its bare prefix", func() {
			// /api/public/* protects the subtree, not /api/public itself.
			resp := authSubrequest(http.MethodGet, "/api/public", "app.example.com", "", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("no_route"))
		})

		It("denies methods the route does not configure", func() {
			resp := authSubrequest(http.MethodPatch, "/api/secure", "app.example.com", `{}`,
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+alphaKey) })
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("method_not_configured"))
		})

		It("prefers the exact domain route over the any-domain fallback", func() {
			By("Requesting under the domain the primary route names")
			resp := authSubrequest(http.MethodGet, "/api/users/42", "api.example.com", "",
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+alphaKey) })
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Route-ID")).To(Equal(usersPrimary.ID))

			By("Requesting the same path under an unrelated domain")
			resp = authSubrequest(http.MethodGet, "/api/users/42", "other.example.net", "",
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+alphaKey) })
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("X-Auth-Route-ID")).To(Equal(usersFallback.ID))
		})
	})

	Describe("permission enforcement", func() {
		It("denies an authenticated client without a grant", func() {
			resp := authSubrequest(http.MethodPost, "/api/public/feed", "app.example.com", `{}`,
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+bravoKey) })
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("no_permission"))
		})

		It("denies a granted client calling a method outside its grant", func() {
			// bravo holds GET on the secure route, not DELETE.
			resp := authSubrequest(http.MethodDelete, "/api/secure", "app.example.com", "",
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+bravoKey) })
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("method_not_allowed"))
		})
	})

	Describe("client lifecycle", func() {
		It("denies a suspended client even with a valid key and grant", func() {
			resp := authSubrequest(http.MethodPost, "/api/public/feed", "app.example.com", `{}`,
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+suspendKey) })
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("client_suspended"))
		})

		It("denies a revoked client", func() {
			resp := authSubrequest(http.MethodPost, "/api/public/feed", "app.example.com", `{}`,
				func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+revokedKey) })
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(denialReason(resp)).To(Equal("client_revoked"))
		})
	})

	Describe("malformed subrequests", func() {
		It("rejects a subrequest without the original request headers", func() {
			req, err := http.NewRequest(http.MethodGet, baseURL+"/authz", nil)
			Expect(err).ToNot(HaveOccurred())

			resp, err := httpClient.Do(req)
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects an unknown original method", func() {
			resp := authSubrequest(http.MethodGet, "/api/public/feed", "app.example.com", "",
				func(r *http.Request) { r.Header.Set("X-Original-Method", "FETCH") })
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})
})
