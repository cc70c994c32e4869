//go:build ignore

// Manual smoke test against a running, seeded server:
//
//	go run integration_runner.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

const baseURL = "http://localhost:8080"

func main() {
	fmt.Println("=== Notably Backend Integration Test ===")

	// 1. Health
	fmt.Println("\n1. Checking health...")
	resp, err := http.Get(baseURL + "/healthz")
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Fatal("Health check failed:", err)
	}
	resp.Body.Close()
	fmt.Println("✓ Server healthy")

	// 2. Login as seeded member
	fmt.Println("\n2. Logging in as user@acme.test...")
	memberToken := login("user@acme.test", "password")
	fmt.Println("✓ Member login working")

	// 3. Create and list a note
	fmt.Println("\n3. Creating a note...")
	note := request("POST", "/api/notes", memberToken, map[string]string{
		"title":   "smoke test",
		"content": "created by integration_runner",
	})
	noteID, _ := note["id"].(string)
	if noteID == "" {
		log.Fatal("Create note returned no id:", note)
	}
	fmt.Println("✓ Note created:", noteID)

	listing := request("GET", "/api/notes", memberToken, nil)
	fmt.Printf("✓ Notes listed (plan=%v)\n", listing["plan"])

	// 4. Clean up
	fmt.Println("\n4. Deleting the note...")
	request("DELETE", "/api/notes/"+noteID, memberToken, nil)
	fmt.Println("✓ Note deleted")

	// 5. Admin dashboard
	fmt.Println("\n5. Logging in as admin@acme.test...")
	adminToken := login("admin@acme.test", "password")
	req, _ := http.NewRequest("GET", baseURL+"/api/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = http.DefaultClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Fatal("Tenant dashboard failed")
	}
	resp.Body.Close()
	fmt.Println("✓ Admin dashboard working")

	fmt.Println("\n=== All checks passed ===")
}

func login(email, password string) string {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(baseURL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal("Login request failed:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Login failed for %s: status %d", email, resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Token == "" {
		log.Fatal("Login returned no token")
	}
	return out.Token
}

func request(method, path, token string, body any) map[string]any {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		log.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(method, " ", path, " failed: ", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("%s %s: status %d", method, path, resp.StatusCode)
	}

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return out
}
