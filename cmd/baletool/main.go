package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"archersedge/parser"
	"archersedge/scoring"
	"archersedge/utils"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const stdoutCLIName = "-"

var version = "v0.1.0-dev"

type balesOutput struct {
	AssignmentType    scoring.AssignmentType `yaml:"assignment_type"`
	Archers           int                    `yaml:"archers"`
	NumberOfBales     int                    `yaml:"number_of_bales"`
	MaxArchersPerBale int                    `yaml:"max_archers_per_bale"`
	Bales             []scoring.Bale         `yaml:"bales"`
}

// generateBales reads a roster CSV and writes the generated bales as YAML.
func generateBales(roster io.Reader, out io.Writer, assignmentType scoring.AssignmentType, numberOfBales int, maxArchersPerBale int) error {
	switch assignmentType {
	case scoring.AssignmentSchool, scoring.AssignmentSchoolVsSchool, scoring.AssignmentMixed:
	default:
		return fmt.Errorf("unknown assignment type %q", assignmentType)
	}
	entries, err := parser.ParseRoster(roster)
	if err != nil {
		return err
	}
	if err := scoring.ValidateBaleCapacity(len(entries), numberOfBales, maxArchersPerBale); err != nil {
		return err
	}
	archers := make([]scoring.BaleArcher, len(entries))
	for i, entry := range entries {
		archers[i] = entry.ToBaleArcher(i + 1)
	}
	return encodeYAML(out, balesOutput{
		AssignmentType:    assignmentType,
		Archers:           len(archers),
		NumberOfBales:     numberOfBales,
		MaxArchersPerBale: maxArchersPerBale,
		Bales:             scoring.GenerateBales(archers, assignmentType, numberOfBales, maxArchersPerBale),
	})
}

type scorecardInput struct {
	Archer string        `yaml:"archer"`
	Ends   []scoring.End `yaml:"ends"`
}

type endLine struct {
	End          int    `yaml:"end"`
	EndTotal     int    `yaml:"end_total"`
	RunningTotal int    `yaml:"running_total"`
	Average      string `yaml:"average"`
}

type totalsOutput struct {
	Archer   string         `yaml:"archer,omitempty"`
	Totals   scoring.Totals `yaml:"totals"`
	Complete bool           `yaml:"complete"`
	Ends     []endLine      `yaml:"ends"`
}

// printTotals reads a scorecard YAML and writes its totals as YAML.
func printTotals(in io.Reader, out io.Writer) error {
	var card scorecardInput
	if err := yaml.NewDecoder(in).Decode(&card); err != nil && err != io.EOF {
		return fmt.Errorf("could not read scorecard: %w", err)
	}
	for i := range card.Ends {
		for j, raw := range card.Ends[i].Arrows {
			token, err := scoring.ParseArrowToken(string(raw))
			if err != nil {
				return fmt.Errorf("end %d: %w", card.Ends[i].EndNumber, err)
			}
			card.Ends[i].Arrows[j] = token
		}
	}
	lines := utils.Map(card.Ends, func(end scoring.End) endLine {
		return endLine{
			End:          end.EndNumber,
			EndTotal:     scoring.EndTotal(end),
			RunningTotal: scoring.RunningTotal(card.Ends, end.EndNumber),
			Average:      scoring.RunningAverage(card.Ends, end.EndNumber),
		}
	})
	return encodeYAML(out, totalsOutput{
		Archer:   card.Archer,
		Totals:   scoring.FinalTotals(card.Ends),
		Complete: scoring.IsComplete(card.Ends),
		Ends:     lines,
	})
}

func encodeYAML(out io.Writer, value any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	return encoder.Close()
}

func openOutput(location string) (io.WriteCloser, error) {
	if location == "" || location == stdoutCLIName {
		return os.Stdout, nil
	}
	return os.OpenFile(location, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

func main() {
	app := &cli.App{
		Name:    "baletool",
		Usage:   "Offline bale assignment and scorecard totals for OAS rounds",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "bales",
				Usage: "Generate bale assignments from a roster CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "roster", Aliases: []string{"r"}, Usage: "Path to the roster CSV", Required: true},
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "school, school-vs-school or mixed", Value: string(scoring.AssignmentSchool)},
					&cli.IntFlag{Name: "bales", Aliases: []string{"b"}, Usage: "Number of bales available", Required: true},
					&cli.IntFlag{Name: "max", Aliases: []string{"m"}, Usage: "Archers per bale, 4 or 6", Value: 4},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Where to write the YAML result, a file path or \"-\" for stdout", Value: stdoutCLIName},
				},
				Action: func(cCtx *cli.Context) error {
					roster, err := os.Open(cCtx.String("roster"))
					if err != nil {
						return err
					}
					defer utils.Closer(roster)()
					out, err := openOutput(cCtx.String("output"))
					if err != nil {
						return err
					}
					if out != os.Stdout {
						defer utils.Closer(out)()
					}
					return generateBales(roster, out, scoring.AssignmentType(cCtx.String("type")), cCtx.Int("bales"), cCtx.Int("max"))
				},
			},
			{
				Name:  "totals",
				Usage: "Print the totals of a scorecard YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scorecard", Aliases: []string{"s"}, Usage: "Path to the scorecard YAML, or \"-\" for stdin", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					var in io.Reader = os.Stdin
					if location := cCtx.String("scorecard"); location != stdoutCLIName {
						f, err := os.Open(location)
						if err != nil {
							return err
						}
						defer utils.Closer(f)()
						in = f
					}
					return printTotals(in, os.Stdout)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
