package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Script is a scripted conversation replayed against a running server.
type Script struct {
	UserID   string   `yaml:"user_id"`
	Lang     string   `yaml:"lang"`
	FullName string   `yaml:"full_name"`
	Turns    []string `yaml:"turns"`
}

var defaultScript = Script{
	UserID:   "simulation",
	Lang:     "en",
	FullName: "Priya Shah",
	Turns: []string{
		"Hi, I want to know about my policy",
		"My name is Priya and I live in Ahmedabad",
		"What happens if I miss a premium?",
		"I don't trust insurance companies",
		"Okay, what documents do I need for a claim?",
	},
}

type QueryResponse struct {
	Response     string                 `json:"response"`
	AudioUrl     *string                `json:"audio_url"`
	Lang         string                 `json:"lang"`
	CustomerData map[string]interface{} `json:"customerData"`
	Error        string                 `json:"error"`
}

func main() {
	baseURL := flag.String("api", "http://localhost:5000/api", "API base URL")
	scriptPath := flag.String("script", "", "YAML conversation script (optional)")
	delay := flag.Duration("delay", time.Second, "pause between turns")
	flag.Parse()

	script := defaultScript
	if *scriptPath != "" {
		raw, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.Fatalf("Failed to read script: %v", err)
		}
		if err := yaml.Unmarshal(raw, &script); err != nil {
			log.Fatalf("Failed to parse script: %v", err)
		}
	}

	fmt.Println("=== Veena Conversation Simulation ===")
	fmt.Printf("User: %s (%s)\n", script.UserID, script.Lang)

	var greeting QueryResponse
	if err := post(*baseURL+"/veena_welcome", map[string]interface{}{
		"user_id":   script.UserID,
		"lang":      script.Lang,
		"full_name": script.FullName,
	}, &greeting); err != nil {
		log.Fatalf("Welcome failed: %v", err)
	}
	fmt.Printf("\nVEENA: %s\n", greeting.Response)

	customer := map[string]interface{}{}
	for _, text := range script.Turns {
		fmt.Printf("\nUSER: %s\n", text)

		start := time.Now()
		var res QueryResponse
		err := post(*baseURL+"/query_customer", map[string]interface{}{
			"user_id":      script.UserID,
			"text":         text,
			"customerData": customer,
		}, &res)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("Error: %v\n", err)
		} else {
			fmt.Printf("VEENA (%v, %s): %s\n", elapsed.Round(time.Millisecond), res.Lang, res.Response)
			if res.CustomerData != nil {
				customer = res.CustomerData
			}
		}

		time.Sleep(*delay)
	}

	summary, _ := json.MarshalIndent(customer, "", "  ")
	fmt.Printf("\nCollected customer data:\n%s\n", summary)
}

func post(url string, body interface{}, out interface{}) error {
	jsonBytes, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBytes))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API Error %d: %s", resp.StatusCode, string(raw))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
