// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Service endpoints", Label("e2e", "api"), func() {
	Describe("GET /health", func() {
		It("reports a healthy store and the configured counts", func() {
			resp, err := httpClient.Get(baseURL + "/health")
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))

			var health struct {
				Status            string `json:"status"`
				Database          string `json:"database"`
				RoutesConfigured  int    `json:"routes_configured"`
				ClientsConfigured int    `json:"clients_configured"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&health)).To(Succeed())
			Expect(health.Status).To(Equal("healthy"))
			Expect(health.Database).To(Equal("connected"))
			Expect(health.RoutesConfigured).To(Equal(4))
			Expect(health.ClientsConfigured).To(Equal(4))
		})

		It("handles concurrent probes", func() {
			const probes = 10
			done := make(chan bool, probes)

			for i := 0; i < probes; i++ {
				go func() {
					defer GinkgoRecover()
					resp, err := httpClient.Get(baseURL + "/health")
					Expect(err).ToNot(HaveOccurred())
					resp.Body.Close()
					Expect(resp.StatusCode).To(Equal(http.StatusOK))
					done <- true
				}()
			}
			for i := 0; i < probes; i++ {
				Eventually(done).Should(Receive())
			}
		})
	})

	Describe("GET /version", func() {
		It("returns the build information", func() {
			resp, err := httpClient.Get(baseURL + "/version")
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var info struct {
				Version   string `json:"version"`
				GoVersion string `json:"go_version"`
				Platform  string `json:"platform"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&info)).To(Succeed())
			Expect(info.Version).ToNot(BeEmpty())
			Expect(info.GoVersion).To(HavePrefix("go"))
			Expect(info.Platform).To(ContainSubstring("/"))
		})
	})

	Describe("GET /metrics", func() {
		It("exposes decision counters", func() {
			By("Driving one decision so the counters exist")
			resp := authSubrequest(http.MethodGet, "/api/public/feed", "app.example.com", "", nil)
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			By("Scraping the registry")
			resp, err := httpClient.Get(baseURL + "/metrics")
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("auth_requests_total"))
			Expect(string(body)).To(ContainSubstring("auth_duration_seconds"))
			Expect(string(body)).To(ContainSubstring(`result="allowed"`))
		})
	})

	Describe("oversized subrequest bodies", func() {
		It("rejects bodies past the forwarding cap", func() {
			oversized := make([]byte, (1<<20)+1)
			resp := authSubrequest(http.MethodPost, "/api/public/feed", "app.example.com", string(oversized), nil)
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))
		})
	})
})
