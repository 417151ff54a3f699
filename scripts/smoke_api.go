package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Smoke client for a running server: welcome, one query per language,
// a rebuttal, then save. Set VEENA_API to point elsewhere.

func baseURL() string {
	if v := os.Getenv("VEENA_API"); v != "" {
		return v
	}
	return "http://localhost:5000/api"
}

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func post(path string, body interface{}) (*http.Response, map[string]interface{}, error) {
	jsonBody, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, baseURL()+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	out := map[string]interface{}{}
	_ = json.Unmarshal(raw, &out)
	return resp, out, nil
}

func step(title, path string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	start := time.Now()
	resp, out, err := post(path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 300 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s (%s)", resp.Status, time.Since(start).Round(time.Millisecond))
	}
	prettyPrint(out)
	return out
}

func main() {
	color.Cyan("🚀 Veena API smoke test against %s\n", baseURL())

	step("1. Welcome (Hindi)", "/veena_welcome", map[string]interface{}{
		"user_id":   "smoke-user",
		"lang":      "hi",
		"full_name": "Ravi Kumar",
	})

	customer := map[string]interface{}{}
	queries := []string{
		"What is the grace period for premium payment?",
		"मेरी पॉलिसी का प्रीमियम कितना है?",
		"I don't trust insurance companies",
	}
	for i, text := range queries {
		out := step(fmt.Sprintf("%d. Query: %s", i+2, text), "/query_customer", map[string]interface{}{
			"user_id":      "smoke-user",
			"text":         text,
			"customerData": customer,
		})
		if cd, ok := out["customerData"].(map[string]interface{}); ok {
			customer = cd
		}
	}

	step(fmt.Sprintf("%d. Empty query", len(queries)+2), "/query_customer", map[string]interface{}{
		"user_id": "smoke-user",
	})

	step(fmt.Sprintf("%d. Save customer", len(queries)+3), "/save_customer", customer)

	color.Cyan("\n✅ Smoke test finished")
}
