// Command server exposes the hunlint engine as a JSON REST API.
//
// Endpoints:
//
//	POST /api/generate  body: {"lines":["foo/AB"]}
//	POST /api/reduce    body: {"flag":"A","lines":[...],"keep_lca":false}
//	POST /api/compound  body: {"rule":"AB*C","lines":[...],"limit":50}
//	GET  /api/rules
//
// When "lines" is omitted the dictionary given on the command line is used.
package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/rs/cors"
	"github.com/spf13/pflag"

	"github.com/cours-de-latin/hunlint"
)

// ---- JSON types ---------------------------------------------------------

type linesRequest struct {
	Lines []string `json:"lines"`
}

type productionJSON struct {
	Word   string   `json:"word"`
	Flags  string   `json:"flags,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

type lineResultJSON struct {
	Line        string           `json:"line"`
	Productions []productionJSON `json:"productions"`
	Error       string           `json:"error,omitempty"`
}

type generateResponse struct {
	Results []lineResultJSON `json:"results"`
}

type reduceRequest struct {
	Flag    string   `json:"flag"`
	Lines   []string `json:"lines"`
	KeepLCA bool     `json:"keep_lca"`
}

type reduceResponse struct {
	Flag  string   `json:"flag"`
	Rules []string `json:"rules"`
	Error string   `json:"error,omitempty"`
}

type compoundRequest struct {
	Rule  string   `json:"rule"`
	Lines []string `json:"lines"`
	Limit int      `json:"limit"`
}

type compoundResponse struct {
	Words     []productionJSON `json:"words"`
	Count     int              `json:"count"`
	Infinite  bool             `json:"infinite"`
	Truncated bool             `json:"truncated"`
}

type ruleJSON struct {
	Flag       string   `json:"flag"`
	Type       string   `json:"type"`
	Combinable bool     `json:"combinable"`
	Entries    []string `json:"entries"`
}

type rulesResponse struct {
	FlagFormat string     `json:"flag_format"`
	Rules      []ruleJSON `json:"rules"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func toProductionJSON(p hunlint.Production, format hunlint.FlagFormat) productionJSON {
	return productionJSON{Word: p.Word, Flags: format.Render(p.ContinuationFlags), Fields: p.DataFields}
}

// server holds the loaded affix data and the default dictionary.
type server struct {
	data    *hunlint.AffixData
	entries []*hunlint.DictionaryEntry
	opts    []hunlint.Option
	// compoundLimit is used when a request gives no limit.
	compoundLimit int
}

// dictionary parses lines, or returns the default dictionary when lines is
// empty.
func (s *server) dictionary(lines []string) ([]*hunlint.DictionaryEntry, error) {
	if len(lines) == 0 {
		return s.entries, nil
	}
	return hunlint.LoadDictionary(strings.NewReader(strings.Join(lines, "\n")), s.data, s.opts...)
}

// ---- handlers -----------------------------------------------------------

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body linesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'lines' field")
		return
	}

	format := s.data.FlagFormat()
	gen := hunlint.NewGenerator(s.data, s.opts...)
	out := make([]lineResultJSON, 0, len(body.Lines))
	for _, line := range body.Lines {
		res := lineResultJSON{Line: line, Productions: []productionJSON{}}
		entry, err := hunlint.ParseDictionaryEntry(line, format)
		if err == nil {
			var prods []hunlint.Production
			if prods, err = gen.Generate(entry); err == nil {
				for _, p := range prods {
					res.Productions = append(res.Productions, toProductionJSON(p, format))
				}
			}
		}
		if err != nil {
			res.Error = err.Error()
		}
		out = append(out, res)
	}
	writeJSON(w, http.StatusOK, generateResponse{Results: out})
}

func (s *server) handleReduce(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body reduceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Flag == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'flag' field")
		return
	}
	entries, err := s.dictionary(body.Lines)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rules, err := hunlint.NewReducer(s.data, s.opts...).ReduceFlag(r.Context(), body.Flag, entries, body.KeepLCA)
	var missing *hunlint.NonExistentRuleError
	var mismatch *hunlint.ReductionMismatchError
	switch {
	case errors.As(err, &missing):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &mismatch):
		writeJSON(w, http.StatusUnprocessableEntity, reduceResponse{Flag: body.Flag, Rules: rules, Error: err.Error()})
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, reduceResponse{Flag: body.Flag, Rules: rules})
	}
}

func (s *server) handleCompound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body compoundRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "body must be JSON")
		return
	}
	entries, err := s.dictionary(body.Lines)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := body.Limit
	if limit <= 0 {
		limit = s.compoundLimit
	}

	gen := hunlint.NewGenerator(s.data, s.opts...)
	var res *hunlint.CompoundResult
	if body.Rule == "" {
		res, err = gen.ApplyCompoundFlag(entries, limit, 0)
	} else {
		res, err = gen.ApplyCompoundRule(entries, body.Rule, limit)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := s.data.FlagFormat()
	words := make([]productionJSON, 0, len(res.Productions))
	for _, p := range res.Productions {
		words = append(words, toProductionJSON(p, format))
	}
	writeJSON(w, http.StatusOK, compoundResponse{
		Words:     words,
		Count:     res.Count,
		Infinite:  res.Count == hunlint.InfiniteCount,
		Truncated: res.Truncated(),
	})
}

func (s *server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	format := s.data.FlagFormat()
	rules := s.data.Rules()
	out := make([]ruleJSON, 0, len(rules))
	for _, rule := range rules {
		rj := ruleJSON{Flag: rule.Flag, Type: rule.Type.String(), Combinable: rule.Combinable, Entries: []string{}}
		for _, e := range rule.Entries {
			rj.Entries = append(rj.Entries, e.Format(format))
		}
		out = append(out, rj)
	}
	writeJSON(w, http.StatusOK, rulesResponse{FlagFormat: format.String(), Rules: out})
}

// newHandler returns the API mux wrapped in the CORS middleware.
func newHandler(s *server, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/reduce", s.handleReduce)
	mux.HandleFunc("/api/compound", s.handleCompound)
	mux.HandleFunc("/api/rules", s.handleRules)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// ---- main ---------------------------------------------------------------

func main() {
	configFlag := pflag.StringP("config", "c", "", "YAML config file")
	affixFlag := pflag.StringP("affix", "a", "", "affix file (.aff)")
	dicFlag := pflag.StringP("dictionary", "d", "", "default dictionary file (.dic)")
	addrFlag := pflag.String("addr", ":8080", "listen address")
	workersFlag := pflag.IntP("workers", "w", 0, "worker goroutines (0 = one per CPU)")
	pflag.Parse()

	cfg := hunlint.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = hunlint.LoadConfig(*configFlag); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if pflag.Lookup("affix").Changed {
		cfg.Affix = *affixFlag
	}
	if pflag.Lookup("dictionary").Changed {
		cfg.Dictionary = *dicFlag
	}
	if pflag.Lookup("addr").Changed {
		cfg.Listen = *addrFlag
	}
	if pflag.Lookup("workers").Changed {
		cfg.Workers = *workersFlag
	}
	if cfg.Affix == "" {
		log.Fatal("an affix file is required (--affix)")
	}

	opts := []hunlint.Option{hunlint.WithLogger(log.Default()), hunlint.WithWorkers(cfg.Workers)}
	log.Printf("loading %s …", cfg.Affix)
	data, err := hunlint.OpenAffix(cfg.Affix, opts...)
	if err != nil {
		log.Fatalf("failed to load affix file: %v", err)
	}
	s := &server{data: data, opts: opts, compoundLimit: cfg.CompoundLimit}
	if cfg.Dictionary != "" {
		s.entries, err = hunlint.OpenDictionary(cfg.Dictionary, data, opts...)
		if err != nil && s.entries == nil {
			log.Fatalf("failed to load dictionary: %v", err)
		}
		if err != nil {
			log.Printf("dictionary: %v", err)
		}
	}
	log.Printf("%d rules, %d dictionary entries loaded", len(data.Rules()), len(s.entries))

	log.Printf("listening on %s", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, newHandler(s, cfg.AllowedOrigins)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
