// Command seed populates a running instance with a realistic event:
// classes, competitors, rounds, and judged scores. Intended for demos
// and load-testing the intake path.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const requestTimeout = 5 * time.Second

type classPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type competitorPayload struct {
	Name        string `json:"name"`
	CarNumber   string `json:"car_number"`
	VehicleInfo string `json:"vehicle_info"`
	Plate       string `json:"plate"`
	ClassID     string `json:"class_id"`
}

type roundPayload struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Status  string `json:"status"`
	IsMinor bool   `json:"is_minor"`
}

type scorePayload struct {
	JudgeID       string  `json:"judge_id"`
	JudgeName     string  `json:"judge_name"`
	CompetitorID  string  `json:"competitor_id"`
	RoundID       string  `json:"round_id"`
	TipIn         float64 `json:"tip_in"`
	InstantSmoke  float64 `json:"instant_smoke"`
	ConstantSmoke float64 `json:"constant_smoke"`
	VolumeOfSmoke float64 `json:"volume_of_smoke"`
	DrivingSkill  float64 `json:"driving_skill"`
	TyresPopped   int     `json:"tyres_popped"`
}

type created struct {
	ID string `json:"id"`
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of a running instance")
	competitors := flag.Int("competitors", 12, "competitors per class")
	judges := flag.Int("judges", 3, "judges on the panel")
	rounds := flag.Int("rounds", 3, "minor rounds to create")
	seed := flag.Uint64("seed", 0, "faker seed; 0 means random")
	flag.Parse()

	faker := gofakeit.New(*seed)
	client := &http.Client{Timeout: requestTimeout}

	if err := run(client, faker, *addr, *competitors, *judges, *rounds); err != nil {
		fmt.Fprintln(os.Stderr, "seed failed:", err)
		os.Exit(1)
	}
}

func run(client *http.Client, faker *gofakeit.Faker, addr string, competitors, judges, rounds int) error {
	classIDs := make([]string, 0, 2)
	for _, name := range []string{"Pro", "Street"} {
		var c created
		err := post(client, addr+"/api/admin/classes", classPayload{
			Name:        name,
			Description: faker.Sentence(6),
		}, &c)
		if err != nil {
			return fmt.Errorf("create class %s: %w", name, err)
		}
		classIDs = append(classIDs, c.ID)
	}

	competitorIDs := make([]string, 0, competitors*len(classIDs))
	for _, classID := range classIDs {
		for i := 0; i < competitors; i++ {
			var c created
			err := post(client, addr+"/api/admin/competitors", competitorPayload{
				Name:        faker.Name(),
				CarNumber:   fmt.Sprintf("%d", faker.Number(1, 999)),
				VehicleInfo: faker.CarMaker() + " " + faker.CarModel(),
				Plate:       faker.LetterN(3) + fmt.Sprintf("%03d", faker.Number(0, 999)),
				ClassID:     classID,
			}, &c)
			if err != nil {
				return fmt.Errorf("create competitor: %w", err)
			}
			competitorIDs = append(competitorIDs, c.ID)
		}
	}

	roundIDs := make([]string, 0, rounds)
	for i := 0; i < rounds; i++ {
		var r created
		err := post(client, addr+"/api/admin/rounds", roundPayload{
			Name:    fmt.Sprintf("Qualifier %d", i+1),
			Date:    time.Now().AddDate(0, 0, i).Format("2006-01-02"),
			Status:  "active",
			IsMinor: true,
		}, &r)
		if err != nil {
			return fmt.Errorf("create round %d: %w", i+1, err)
		}
		roundIDs = append(roundIDs, r.ID)
	}

	submitted := 0
	for _, roundID := range roundIDs {
		for _, competitorID := range competitorIDs {
			for j := 0; j < judges; j++ {
				err := post(client, addr+"/api/judge/scores", scorePayload{
					JudgeID:       fmt.Sprintf("judge-%d", j+1),
					JudgeName:     faker.Name(),
					CompetitorID:  competitorID,
					RoundID:       roundID,
					TipIn:         halfStep(faker, 10),
					InstantSmoke:  halfStep(faker, 10),
					ConstantSmoke: halfStep(faker, 20),
					VolumeOfSmoke: halfStep(faker, 20),
					DrivingSkill:  halfStep(faker, 40),
					TyresPopped:   faker.Number(0, 2),
				}, nil)
				if err != nil {
					return fmt.Errorf("submit score: %w", err)
				}
				submitted++
			}
		}
	}

	fmt.Printf("seeded %d classes, %d competitors, %d rounds, %d scores\n",
		len(classIDs), len(competitorIDs), len(roundIDs), submitted)
	return nil
}

// halfStep picks a random value in [0, max] on the 0.5 grid.
func halfStep(faker *gofakeit.Faker, max int) float64 {
	return float64(faker.Number(0, max*2)) / 2
}

func post(client *http.Client, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s returned %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
