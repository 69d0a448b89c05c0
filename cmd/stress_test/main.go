package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type item struct {
	ID       int64  `json:"id"`
	Rarity   string `json:"rarity"`
	Quantity int    `json:"quantity"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "inventory HTTP base URL")
	totalRequests := flag.Int("requests", 50, "concurrent quantity updates")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	created, err := createItem(client, *baseURL)
	if err != nil {
		log.Fatalf("failed to create item: %v", err)
	}
	log.Printf("created item %d", created.ID)

	var successCount atomic.Int32
	var failCount atomic.Int32
	var listCount atomic.Int32

	// Spawn concurrent updates interleaved with listings
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(2)
		go func(quantity int) {
			defer wg.Done()
			if err := updateQuantity(client, *baseURL, created.ID, quantity); err != nil {
				failCount.Add(1)
				return
			}
			successCount.Add(1)
		}(i + 1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(*baseURL + "/api/items")
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					listCount.Add(1)
				}
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	final, err := getItem(client, *baseURL, created.ID)
	if err != nil {
		log.Fatalf("failed to read item: %v", err)
	}

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Updates:    %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", successCount.Load())
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Listings OK:      %d\n", listCount.Load())
	fmt.Printf("Final Quantity:   %d\n", final.Quantity)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Last write wins: the final quantity is one of the written values.
	if final.Quantity >= 1 && final.Quantity <= *totalRequests {
		fmt.Println("PASS: final quantity is one of the written values")
	} else {
		fmt.Printf("FAIL: unexpected final quantity %d\n", final.Quantity)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/items/%d", *baseURL, created.ID), nil)
	if resp, err := client.Do(req); err == nil {
		resp.Body.Close()
	}
}

func createItem(client *http.Client, baseURL string) (item, error) {
	body, _ := json.Marshal(map[string]any{
		"name":     "stress-test-item",
		"type":     "test",
		"rarity":   "rare",
		"quantity": 0,
	})
	resp, err := client.Post(baseURL+"/api/items", "application/json", bytes.NewReader(body))
	if err != nil {
		return item{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return item{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var it item
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		return item{}, err
	}
	return it, nil
}

func updateQuantity(client *http.Client, baseURL string, id int64, quantity int) error {
	body, _ := json.Marshal(map[string]int{"quantity": quantity})
	req, err := http.NewRequest(http.MethodPatch, fmt.Sprintf("%s/api/items/%d/quantity", baseURL, id), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func getItem(client *http.Client, baseURL string, id int64) (item, error) {
	resp, err := client.Get(fmt.Sprintf("%s/api/items/%d", baseURL, id))
	if err != nil {
		return item{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return item{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var it item
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		return item{}, err
	}
	return it, nil
}
