package retrieval

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/b-castleman/llm-tutor-knowledge-base/kb"
)

// Passage is one ranked snippet returned by the retrieval backend. The
// snippet text is mapped back onto corpus lines by substring containment;
// the backend's own document ids are deliberately not used.
type Passage struct {
	Context string
	Score   float32
}

// Service is the Pinecone-backed retrieval backend: it indexes the flat
// corpus file once at setup and answers top-k passage queries afterwards.
type Service struct {
	client    *pinecone.Client
	embedder  embeddings.Embedder
	indexName string
	namespace string
}

func NewService(pineconeAPIKey, openaiAPIKey, indexName string) (*Service, error) {
	log.Printf("[INFO] Initializing retrieval service")

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: pineconeAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	client, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(openaiAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	log.Printf("[INFO] Retrieval service initialized with index %s", indexName)
	return &Service{
		client:    pc,
		embedder:  embedder,
		indexName: indexName,
		namespace: "lecture-material",
	}, nil
}

// Index ensures the Pinecone index exists and upserts one vector per corpus
// line. Run this together with the corpus build; the corpus file and the
// indexed vectors must describe the same lines.
func (s *Service) Index(ctx context.Context, corpus *kb.Corpus) error {
	if err := s.ensureIndex(ctx); err != nil {
		return err
	}

	idxConn, err := s.indexConnection(ctx)
	if err != nil {
		return err
	}

	lines := corpus.Lines()
	log.Printf("[INFO] Indexing %d corpus lines", len(lines))

	embeddingVectors, err := s.embedder.EmbedDocuments(ctx, lines)
	if err != nil {
		return fmt.Errorf("failed to embed corpus lines: %w", err)
	}

	vectors := make([]*pinecone.Vector, 0, len(lines))
	for i, line := range lines {
		metadata, err := structpb.NewStruct(map[string]any{
			"line":    i + 1,
			"content": line,
		})
		if err != nil {
			return fmt.Errorf("failed to build metadata for line %d: %w", i+1, err)
		}
		vectors = append(vectors, &pinecone.Vector{
			Id:       fmt.Sprintf("line-%d", i+1),
			Values:   &embeddingVectors[i],
			Metadata: metadata,
		})
	}

	if _, err := idxConn.UpsertVectors(ctx, vectors); err != nil {
		return fmt.Errorf("failed to upsert corpus vectors: %w", err)
	}

	log.Printf("[INFO] Indexed %d corpus lines successfully", len(vectors))
	return nil
}

// Query embeds the text and returns up to topK passages ranked by similarity.
func (s *Service) Query(ctx context.Context, text string, topK int) ([]Passage, error) {
	idxConn, err := s.indexConnection(ctx)
	if err != nil {
		return nil, err
	}

	queryEmbeddings, err := s.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	result, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          queryEmbeddings[0],
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	var passages []Passage
	for _, match := range result.Matches {
		if match.Vector.Metadata == nil {
			continue
		}
		metadata := match.Vector.Metadata.AsMap()
		content, ok := metadata["content"].(string)
		if !ok || content == "" {
			continue
		}
		passages = append(passages, Passage{Context: content, Score: match.Score})
	}

	log.Printf("[INFO] Retrieved %d passages for query (top_k=%d)", len(passages), topK)
	return passages, nil
}

func (s *Service) ensureIndex(ctx context.Context) error {
	indexes, err := s.client.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	for _, idx := range indexes {
		if idx.Name == s.indexName {
			log.Printf("[INFO] Index %s already exists", s.indexName)
			return nil
		}
	}

	log.Printf("[INFO] Creating Pinecone index: %s", s.indexName)
	dimension := int32(1536)
	deletionProtection := pinecone.DeletionProtectionDisabled
	metric := pinecone.Cosine

	_, err = s.client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               s.indexName,
		Dimension:          &dimension,
		Metric:             &metric,
		Cloud:              pinecone.Aws,
		Region:             "us-east-1",
		DeletionProtection: &deletionProtection,
		Tags:               &pinecone.IndexTags{"project": "llm-tutor-knowledge-base"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	for {
		idx, err := s.client.DescribeIndex(ctx, s.indexName)
		if err != nil {
			return fmt.Errorf("failed to describe index: %w", err)
		}
		if idx.Status.Ready {
			log.Printf("[INFO] Index %s is ready", s.indexName)
			return nil
		}
		log.Printf("[INFO] Waiting for index %s to be ready...", s.indexName)
		time.Sleep(10 * time.Second)
	}
}

func (s *Service) indexConnection(ctx context.Context) (*pinecone.IndexConnection, error) {
	idxDesc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: s.namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}
	return idxConn, nil
}
