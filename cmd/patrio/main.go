// patrio：离线命令行，直接调用分类器与地理计算，不依赖数据库与外部服务
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"patrio-api/internal/analysis"
	"patrio-api/internal/catalog"
	"patrio-api/internal/classifier"
	"patrio-api/internal/config"
	"patrio-api/internal/geo"
	"patrio-api/internal/logger"
)

func main() {
	config.LoadDotEnv()
	logger.Setup()
	if err := rootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCommand 组装全部子命令；out 为结果输出目标
func rootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "patrio",
		Short:        "Análise arquitetônica e geográfica offline",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.AddCommand(
		classifyCommand(out),
		simulateCommand(out),
		distanceCommand(out),
		directionsCommand(out),
		zoneCommand(out),
		nearbyCommand(out),
		buildingsCommand(out),
	)
	return root
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// validPoint：命令行坐标越界直接报错，不做 0 值兜底
func validPoint(name string, lat, lon float64) error {
	if !(geo.Coordinate{Latitude: lat, Longitude: lon}).Valid() {
		return fmt.Errorf("%s: coordenada inválida (%v, %v)", name, lat, lon)
	}
	return nil
}

func classifyCommand(out io.Writer) *cobra.Command {
	var labels, objects []string
	var seed int64
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classifica um edifício a partir de rótulos e objetos detectados",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := classifier.New(classifier.WithRand(classifier.NewSeededRand(seed)))
			res := c.Classify(labels, objects)
			if b, ok := catalog.Default().Match(labels, objects); ok {
				return printJSON(out, map[string]any{"analysis": res, "known_building": b})
			}
			return printJSON(out, map[string]any{"analysis": res})
		},
	}
	cmd.Flags().StringSliceVar(&labels, "labels", []string{}, "rótulos detectados, separados por vírgula")
	cmd.Flags().StringSliceVar(&objects, "objects", []string{}, "objetos detectados, separados por vírgula")
	cmd.Flags().Int64Var(&seed, "seed", 0, "semente aleatória (0 = relógio)")
	return cmd
}

func simulateCommand(out io.Writer) *cobra.Command {
	var seed int64
	var n int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Gera análises simuladas (modo offline)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n <= 0 {
				return fmt.Errorf("--count deve ser positivo")
			}
			c := classifier.New(classifier.WithRand(classifier.NewSeededRand(seed)))
			res := make([]classifier.Result, 0, n)
			for i := 0; i < n; i++ {
				res = append(res, c.Simulate())
			}
			if n == 1 {
				return printJSON(out, res[0])
			}
			return printJSON(out, res)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "semente aleatória (0 = relógio)")
	cmd.Flags().IntVar(&n, "count", 1, "quantidade de simulações")
	return cmd
}

func distanceCommand(out io.Writer) *cobra.Command {
	var lat1, lon1, lat2, lon2 float64
	cmd := &cobra.Command{
		Use:   "distance",
		Short: "Distância Haversine em km (2 casas decimais)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(out, map[string]float64{"distance_km": geo.DistanceKm(lat1, lon1, lat2, lon2)})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&lat1, "lat1", 0, "latitude de origem")
	f.Float64Var(&lon1, "lon1", 0, "longitude de origem")
	f.Float64Var(&lat2, "lat2", 0, "latitude de destino")
	f.Float64Var(&lon2, "lon2", 0, "longitude de destino")
	for _, name := range []string{"lat1", "lon1", "lat2", "lon2"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func directionsCommand(out io.Writer) *cobra.Command {
	var fromLat, fromLon, toLat, toLon float64
	var building string
	cmd := &cobra.Command{
		Use:   "directions",
		Short: "Direção e tempo estimado a pé até um ponto ou edifício",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validPoint("origem", fromLat, fromLon); err != nil {
				return err
			}
			if building != "" {
				b, ok := catalog.Default().ByID(building)
				if !ok {
					b, ok = catalog.Default().ByKey(building)
				}
				if !ok {
					return fmt.Errorf("edifício não encontrado: %s", building)
				}
				toLat, toLon = b.Coordinates.Latitude, b.Coordinates.Longitude
			} else if !cmd.Flags().Changed("to-lat") || !cmd.Flags().Changed("to-lon") {
				return fmt.Errorf("informe --to-lat/--to-lon ou --building")
			}
			return printJSON(out, geo.DirectionsTo(fromLat, fromLon, toLat, toLon))
		},
	}
	f := cmd.Flags()
	f.Float64Var(&fromLat, "from-lat", 0, "latitude de origem")
	f.Float64Var(&fromLon, "from-lon", 0, "longitude de origem")
	f.Float64Var(&toLat, "to-lat", 0, "latitude de destino")
	f.Float64Var(&toLon, "to-lon", 0, "longitude de destino")
	f.StringVar(&building, "building", "", "id ou chave do edifício de destino")
	_ = cmd.MarkFlagRequired("from-lat")
	_ = cmd.MarkFlagRequired("from-lon")
	return cmd
}

func zoneCommand(out io.Writer) *cobra.Command {
	var lat, lon float64
	var list bool
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Verifica se o ponto está em uma área histórica",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return printJSON(out, geo.DefaultZones)
			}
			if err := validPoint("ponto", lat, lon); err != nil {
				return err
			}
			zones := geo.ZonesContaining(geo.DefaultZones, geo.Coordinate{Latitude: lat, Longitude: lon})
			return printJSON(out, map[string]any{
				"in_historical_area": len(zones) > 0,
				"zones":              zones,
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().BoolVar(&list, "list", false, "lista todas as áreas históricas")
	return cmd
}

func nearbyCommand(out io.Writer) *cobra.Command {
	var lat, lon, maxKm float64
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Edifícios catalogados dentro do raio informado",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validPoint("ponto", lat, lon); err != nil {
				return err
			}
			if maxKm < 0 {
				return fmt.Errorf("--max-km não pode ser negativo")
			}
			res := []analysis.NearbyBuilding{}
			for _, m := range catalog.Default().Nearby(lat, lon, maxKm) {
				res = append(res, analysis.NearbyBuilding{
					Building:   m.Item,
					DistanceKm: m.DistanceKm,
					Directions: geo.DirectionsTo(lat, lon, m.Item.Coordinates.Latitude, m.Item.Coordinates.Longitude),
				})
			}
			return printJSON(out, res)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().Float64Var(&maxKm, "max-km", analysis.DefaultNearbyRadiusKm, "raio máximo em km")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func buildingsCommand(out io.Writer) *cobra.Command {
	var query, id string
	cmd := &cobra.Command{
		Use:   "buildings",
		Short: "Lista, busca ou detalha edifícios catalogados",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			switch {
			case id != "":
				b, ok := cat.ByID(id)
				if !ok {
					b, ok = cat.ByKey(id)
				}
				if !ok {
					return fmt.Errorf("edifício não encontrado: %s", id)
				}
				return printJSON(out, b)
			case strings.TrimSpace(query) != "":
				return printJSON(out, cat.Search(query))
			}
			return printJSON(out, cat.All())
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "busca por nome, endereço ou estilo")
	cmd.Flags().StringVar(&id, "id", "", "id ou chave do edifício")
	return cmd
}
