package ats

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// EmbeddingTable is a pretrained word-embedding lookup loaded from a
// GloVe-style text file: one word per line followed by its vector components.
type EmbeddingTable struct {
	dim     int
	vectors map[string][]float64
}

// LoadEmbeddings parses an embedding table from r. The dimensionality is
// fixed by the first line; lines with a different component count are
// rejected so a truncated download fails loudly instead of skewing scores.
func LoadEmbeddings(r io.Reader) (*EmbeddingTable, error) {
	table := &EmbeddingTable{vectors: make(map[string][]float64)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		word := fields[0]
		vec := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("embeddings line %d: bad component %q: %w", line, f, err)
			}
			vec[i] = v
		}
		if table.dim == 0 {
			table.dim = len(vec)
		} else if len(vec) != table.dim {
			return nil, fmt.Errorf("embeddings line %d: got %d components, want %d", line, len(vec), table.dim)
		}
		table.vectors[word] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read embeddings: %w", err)
	}
	if len(table.vectors) == 0 {
		return nil, fmt.Errorf("embeddings source contained no vectors")
	}
	return table, nil
}

// Dim returns the vector dimensionality.
func (t *EmbeddingTable) Dim() int { return t.dim }

// Len returns the vocabulary size.
func (t *EmbeddingTable) Len() int { return len(t.vectors) }

// DocumentVector averages the vectors of every known token. Tokens outside
// the vocabulary are dropped; a zero vector comes back when none matched.
func (t *EmbeddingTable) DocumentVector(tokens []string) []float64 {
	mean := make([]float64, t.dim)
	matched := 0
	for _, token := range tokens {
		vec, ok := t.vectors[token]
		if !ok {
			continue
		}
		for i, v := range vec {
			mean[i] += v
		}
		matched++
	}
	if matched == 0 {
		return mean
	}
	for i := range mean {
		mean[i] /= float64(matched)
	}
	return mean
}

// LoadEmbeddingsFromR2 downloads the embedding asset from an R2 bucket and
// parses it. The client must already point at the account's R2 endpoint.
func LoadEmbeddingsFromR2(ctx context.Context, client *s3.Client, bucket, key string) (*EmbeddingTable, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get embeddings object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read embeddings object body: %w", err)
	}
	return LoadEmbeddings(buf)
}
