// Package stream builds synthetic DynamoDB Streams events for exercising
// Lambda handlers in tests, without a real table or stream behind them.
package stream

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// Stream event names as DynamoDB reports them.
const (
	eventInsert = "INSERT"
	eventModify = "MODIFY"
	eventRemove = "REMOVE"
)

// InsertEvent returns a single-record INSERT event carrying newImage.
func InsertEvent(table string, newImage map[string]any) (events.DynamoDBEvent, error) {
	record, err := NewRecord(eventInsert, table, nil, newImage)
	if err != nil {
		return events.DynamoDBEvent{}, err
	}
	return Event(record), nil
}

// ModifyEvent returns a single-record MODIFY event carrying both images.
func ModifyEvent(table string, oldImage, newImage map[string]any) (events.DynamoDBEvent, error) {
	record, err := NewRecord(eventModify, table, oldImage, newImage)
	if err != nil {
		return events.DynamoDBEvent{}, err
	}
	return Event(record), nil
}

// RemoveEvent returns a single-record REMOVE event carrying oldImage.
func RemoveEvent(table string, oldImage map[string]any) (events.DynamoDBEvent, error) {
	record, err := NewRecord(eventRemove, table, oldImage, nil)
	if err != nil {
		return events.DynamoDBEvent{}, err
	}
	return Event(record), nil
}

// Event bundles records into one stream event, the shape a Lambda handler
// receives for a batch.
func Event(records ...events.DynamoDBEventRecord) events.DynamoDBEvent {
	return events.DynamoDBEvent{Records: records}
}

// NewRecord builds one stream record. Images are plain Go maps; supported
// value types are string, bool, int, int64, float64, []byte, nil, []any
// and nested map[string]any.
func NewRecord(eventName, table string, oldImage, newImage map[string]any) (events.DynamoDBEventRecord, error) {
	oldAttrs, err := convertImage(oldImage)
	if err != nil {
		return events.DynamoDBEventRecord{}, fmt.Errorf("old image: %w", err)
	}
	newAttrs, err := convertImage(newImage)
	if err != nil {
		return events.DynamoDBEventRecord{}, fmt.Errorf("new image: %w", err)
	}

	return events.DynamoDBEventRecord{
		AWSRegion:      "us-east-1",
		EventID:        uuid.NewString(),
		EventName:      eventName,
		EventSource:    "aws:dynamodb",
		EventVersion:   "1.1",
		EventSourceArn: fmt.Sprintf("arn:aws:dynamodb:us-east-1:000000000000:table/%s/stream/%s", table, time.Now().UTC().Format(time.RFC3339)),
		Change: events.DynamoDBStreamRecord{
			OldImage:       oldAttrs,
			NewImage:       newAttrs,
			SequenceNumber: strconv.FormatInt(time.Now().UnixNano(), 10),
			StreamViewType: "NEW_AND_OLD_IMAGES",
		},
	}, nil
}

func convertImage(image map[string]any) (map[string]events.DynamoDBAttributeValue, error) {
	if image == nil {
		return nil, nil
	}
	out := make(map[string]events.DynamoDBAttributeValue, len(image))
	for name, v := range image {
		av, err := convertValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = av
	}
	return out, nil
}

func convertValue(v any) (events.DynamoDBAttributeValue, error) {
	switch tv := v.(type) {
	case nil:
		return events.NewNullAttribute(), nil
	case string:
		return events.NewStringAttribute(tv), nil
	case bool:
		return events.NewBooleanAttribute(tv), nil
	case int:
		return events.NewNumberAttribute(strconv.Itoa(tv)), nil
	case int64:
		return events.NewNumberAttribute(strconv.FormatInt(tv, 10)), nil
	case float64:
		return events.NewNumberAttribute(strconv.FormatFloat(tv, 'f', -1, 64)), nil
	case []byte:
		return events.NewBinaryAttribute(tv), nil
	case map[string]any:
		m, err := convertImage(tv)
		if err != nil {
			return events.DynamoDBAttributeValue{}, err
		}
		return events.NewMapAttribute(m), nil
	case []any:
		list := make([]events.DynamoDBAttributeValue, 0, len(tv))
		for i, el := range tv {
			av, err := convertValue(el)
			if err != nil {
				return events.DynamoDBAttributeValue{}, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, av)
		}
		return events.NewListAttribute(list), nil
	default:
		return events.DynamoDBAttributeValue{}, fmt.Errorf("unsupported attribute type %T", v)
	}
}
