package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/sync/errgroup"

	"petmatch_server/logging"
	"petmatch_server/models"
	"petmatch_server/utils"
)

const countLikesParallelism = 16

// Tables names the DynamoDB tables backing DynamoStore
type Tables struct {
	Candidates  string
	Judgments   string
	Preferences string
	Channels    string
}

// DefaultTables returns the table names in models
func DefaultTables() Tables {
	return Tables{
		Candidates:  models.CandidatesTable,
		Judgments:   models.JudgmentsTable,
		Preferences: models.PreferencesTable,
		Channels:    models.ChannelsTable,
	}
}

// DynamoStore keeps candidates, judgments, preferences and channels in DynamoDB.
//
// Judgments are keyed PK=USER#<user>, SK=CANDIDATE#<candidate> with a
// candidateId GSI for popularity counts. Channels are keyed
// PK=CANDIDATE#<candidate>, SK=USER#<user>.
type DynamoStore struct {
	Dynamo *DynamoService
	Tables Tables
}

func NewDynamoStore(client DynamoAPI, tables Tables) *DynamoStore {
	return &DynamoStore{Dynamo: &DynamoService{Client: client}, Tables: tables}
}

// SaveCandidate inserts or replaces a candidate
func (s *DynamoStore) SaveCandidate(ctx context.Context, c *models.Candidate) error {
	if c.ID == "" {
		return fmt.Errorf("candidate id is empty: %w", models.ErrInvalidArgument)
	}
	return s.Dynamo.PutItem(ctx, s.Tables.Candidates, c, "")
}

// SavePreference inserts or replaces a user's declared preferences
func (s *DynamoStore) SavePreference(ctx context.Context, p *models.ExplicitPreference) error {
	return s.Dynamo.PutItem(ctx, s.Tables.Preferences, p, "")
}

func (s *DynamoStore) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	item, err := s.Dynamo.GetItem(ctx, s.Tables.Candidates, map[string]types.AttributeValue{"id": utils.S(id)})
	if err != nil {
		return nil, fmt.Errorf("candidate %s: %w", id, err)
	}
	var c models.Candidate
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate %s: %w", id, err)
	}
	return &c, nil
}

func (s *DynamoStore) ListAvailableCandidates(ctx context.Context, exclude map[string]struct{}) ([]*models.Candidate, error) {
	var candidates []*models.Candidate
	err := s.Dynamo.ScanWithFilter(ctx, s.Tables.Candidates,
		"#adopted = :false AND #hidden = :false",
		map[string]string{"#adopted": "adopted", "#hidden": "hidden"},
		map[string]types.AttributeValue{":false": utils.BoolAttr(false)},
		func(item map[string]types.AttributeValue) bool {
			_, skip := exclude[utils.ExtractString(item, "id")]
			return !skip
		},
		&candidates,
	)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (s *DynamoStore) UpsertJudgment(ctx context.Context, j models.Judgment) (*models.Judgment, bool, error) {
	judgedAt, err := attributevalue.Marshal(j.JudgedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal judgedAt: %w", err)
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, s.Tables.Judgments,
		"SET userId = :userId, candidateId = :candidateId, #outcome = :outcome, judgedAt = :judgedAt, "+
			"createdAt = if_not_exists(createdAt, :judgedAt) ADD revision :one",
		utils.CompositeKey(utils.UserPrefix+j.UserID, utils.CandidatePrefix+j.CandidateID),
		map[string]types.AttributeValue{
			":userId":      utils.S(j.UserID),
			":candidateId": utils.S(j.CandidateID),
			":outcome":     utils.S(j.Outcome),
			":judgedAt":    judgedAt,
			":one":         utils.N(1),
		},
		map[string]string{"#outcome": "outcome"},
	)
	if err != nil {
		return nil, false, err
	}

	var out models.Judgment
	if err := attributevalue.UnmarshalMap(attrs, &out); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal judgment: %w", err)
	}
	return &out, utils.ExtractInt(attrs, "revision") == 1, nil
}

func (s *DynamoStore) ListJudgmentsByUser(ctx context.Context, userID string) ([]*models.Judgment, error) {
	items, err := s.Dynamo.QueryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Judgments),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		// a judgment written by the previous request must already exclude its candidate
		ConsistentRead: aws.Bool(true),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": utils.S(utils.UserPrefix + userID),
			":sk": utils.S(utils.CandidatePrefix),
		},
	})
	if err != nil {
		return nil, err
	}
	var judgments []*models.Judgment
	if err := attributevalue.UnmarshalListOfMaps(items, &judgments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal judgments: %w", err)
	}
	return judgments, nil
}

// CountLikes queries the candidate index once per id, at most countLikesParallelism at a time
func (s *DynamoStore) CountLikes(ctx context.Context, candidateIDs []string) (map[string]int, error) {
	results := make([]int, len(candidateIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countLikesParallelism)
	for i, id := range candidateIDs {
		g.Go(func() error {
			n, err := s.Dynamo.QueryCount(gctx, &dynamodb.QueryInput{
				TableName:              aws.String(s.Tables.Judgments),
				IndexName:              aws.String(models.CandidateJudgmentsIndex),
				KeyConditionExpression: aws.String("candidateId = :cid"),
				FilterExpression:       aws.String("#outcome = :like"),
				ExpressionAttributeNames: map[string]string{
					"#outcome": "outcome",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":cid":  utils.S(id),
					":like": utils.S(models.OutcomeLike),
				},
			})
			if err != nil {
				return fmt.Errorf("failed to count likes for %s: %w", id, err)
			}
			results[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(candidateIDs))
	for i, id := range candidateIDs {
		if results[i] > 0 {
			counts[id] = results[i]
		}
	}
	return counts, nil
}

func (s *DynamoStore) GetExplicitPreference(ctx context.Context, userID string) (*models.ExplicitPreference, error) {
	item, err := s.Dynamo.GetItem(ctx, s.Tables.Preferences, map[string]types.AttributeValue{"userId": utils.S(userID)})
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p models.ExplicitPreference
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences for %s: %w", userID, err)
	}
	return &p, nil
}

func (s *DynamoStore) GetOrCreateChannel(ctx context.Context, ch models.MatchChannel) (*models.MatchChannel, bool, error) {
	item, err := attributevalue.MarshalMap(ch)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal channel: %w", err)
	}
	key := utils.CompositeKey(utils.CandidatePrefix+ch.CandidateID, utils.UserPrefix+ch.UserID)
	for k, v := range key {
		item[k] = v
	}

	err = s.Dynamo.putItem(ctx, s.Tables.Channels, item, "attribute_not_exists(PK)")
	if err == nil {
		return &ch, true, nil
	}
	var conflict *types.ConditionalCheckFailedException
	if !errors.As(err, &conflict) {
		return nil, false, err
	}

	existing, err := s.Dynamo.GetItem(ctx, s.Tables.Channels, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read existing channel: %w", err)
	}
	var out models.MatchChannel
	if err := attributevalue.UnmarshalMap(existing, &out); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal channel: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("channel_id", out.ID).Msg("channel already exists")
	return &out, false, nil
}
