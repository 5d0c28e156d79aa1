package builder

import (
	"context"

	"github.com/shelterhub/fieldauth/dto"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/lookup"
)

func conversationID(c entity.Conversation) string { return c.ID }

// Conversations builds conversation DTOs.
func (r *Registry) Conversations(ctx context.Context, rows []entity.Conversation, paths []string) ([]*dto.Conversation, error) {
	p := planFor(entity.KindConversation, paths)
	out := make([]*dto.Conversation, len(rows))
	for i, c := range rows {
		d := &dto.Conversation{}
		set(p, "Id", &d.ID, c.ID)
		set(p, "LastMessageAt", &d.LastMessageAt, timeOf(c.LastMessageAt))
		set(p, "CreatedAt", &d.CreatedAt, timeOf(c.CreatedAt))
		out[i] = d
	}

	if sub := p.nested["Users"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(c entity.Conversation) []string { return c.UserIDs })
		index, err := related(ctx, r, &lookup.UserLookup{IDs: ids}, ids, sub, userID, r.Users)
		if err != nil {
			return nil, err
		}
		for i, c := range rows {
			out[i].Users = pickAll(index, c.UserIDs)
		}
	}
	return out, nil
}

// Messages builds message DTOs.
func (r *Registry) Messages(ctx context.Context, rows []entity.Message, paths []string) ([]*dto.Message, error) {
	p := planFor(entity.KindMessage, paths)
	out := make([]*dto.Message, len(rows))
	for i, m := range rows {
		d := &dto.Message{}
		set(p, "Id", &d.ID, m.ID)
		set(p, "Content", &d.Content, m.Content)
		if p.has("IsRead") {
			read := m.IsRead
			d.IsRead = &read
		}
		set(p, "CreatedAt", &d.CreatedAt, timeOf(m.CreatedAt))
		out[i] = d
	}

	if sub := p.nested["Conversation"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(m entity.Message) []string { return one(m.ConversationID) })
		index, err := related(ctx, r, &lookup.ConversationLookup{IDs: ids}, ids, sub, conversationID, r.Conversations)
		if err != nil {
			return nil, err
		}
		for i, m := range rows {
			out[i].Conversation = index[m.ConversationID]
		}
	}
	// Sender and recipient share one user fetch; each view is built from
	// its own field list.
	senders, recipients := p.nested["Sender"], p.nested["Recipient"]
	if len(senders) > 0 || len(recipients) > 0 {
		ids := foreignIDs(rows, func(m entity.Message) []string {
			var keys []string
			if len(senders) > 0 {
				keys = append(keys, m.SenderID)
			}
			if len(recipients) > 0 {
				keys = append(keys, m.RecipientID)
			}
			return keys
		})
		users, err := fetch[entity.User](ctx, r, &lookup.UserLookup{IDs: ids}, ids, lookup.Union(senders, recipients))
		if err != nil {
			return nil, err
		}
		if len(senders) > 0 {
			byID, err := indexByID(ctx, users, senders, userID, r.Users)
			if err != nil {
				return nil, err
			}
			for i, m := range rows {
				out[i].Sender = byID[m.SenderID]
			}
		}
		if len(recipients) > 0 {
			byID, err := indexByID(ctx, users, recipients, userID, r.Users)
			if err != nil {
				return nil, err
			}
			for i, m := range rows {
				out[i].Recipient = byID[m.RecipientID]
			}
		}
	}
	return out, nil
}

// Reports builds report DTOs.
func (r *Registry) Reports(ctx context.Context, rows []entity.Report, paths []string) ([]*dto.Report, error) {
	p := planFor(entity.KindReport, paths)
	out := make([]*dto.Report, len(rows))
	for i, rep := range rows {
		d := &dto.Report{}
		set(p, "Id", &d.ID, rep.ID)
		set(p, "Reason", &d.Reason, rep.Reason)
		set(p, "Details", &d.Details, rep.Details)
		set(p, "Status", &d.Status, rep.Status)
		set(p, "CreatedAt", &d.CreatedAt, timeOf(rep.CreatedAt))
		out[i] = d
	}

	if sub := p.nested["Reporter"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(rep entity.Report) []string { return one(rep.ReporterID) })
		index, err := related(ctx, r, &lookup.UserLookup{IDs: ids}, ids, sub, userID, r.Users)
		if err != nil {
			return nil, err
		}
		for i, rep := range rows {
			out[i].Reporter = index[rep.ReporterID]
		}
	}
	if sub := p.nested["Reported"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(rep entity.Report) []string { return one(rep.ReportedID) })
		index, err := related(ctx, r, &lookup.UserLookup{IDs: ids}, ids, sub, userID, r.Users)
		if err != nil {
			return nil, err
		}
		for i, rep := range rows {
			out[i].Reported = index[rep.ReportedID]
		}
	}
	return out, nil
}
