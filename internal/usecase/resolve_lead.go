package usecase

import (
	"context"
	"log"

	"github.com/luminafoto/lumina-api/internal/entity"
)

// ResolveResult é o contrato devolvido para a camada de conversa.
// Merged=true sinaliza unificação cross-channel (vale notificar o estúdio).
type ResolveResult struct {
	Lead      *entity.Lead   `json:"lead"`
	IsNew     bool           `json:"is_new"`
	MatchedBy entity.Channel `json:"matched_by,omitempty"`
	Merged    bool           `json:"merged"`
}

// LeadResolver acha o lead canônico de um evento de conversa dentro de um
// estúdio, unificando identificadores entre canais sem criar duplicatas.
type LeadResolver struct {
	Repo entity.LeadRepositoryInterface
}

func NewLeadResolver(repo entity.LeadRepositoryInterface) *LeadResolver {
	return &LeadResolver{Repo: repo}
}

// Resolve percorre os canais em ordem de confiança: instagram_id →
// browser_fingerprint → whatsapp → email. A ordem é correção, não
// otimização: um match de instagram nunca pode ser sombreado por uma
// coincidência de whatsapp. Cada passo só roda se o anterior não achou nada.
//
// Erros de leitura sobem direto para o caller — atribuir a conversa ao lead
// errado é pior que abortar o turno.
func (r *LeadResolver) Resolve(ctx context.Context, studioID string, ids entity.Identifiers) (*ResolveResult, error) {
	if ids.Empty() {
		return &ResolveResult{IsNew: true}, nil
	}

	if ids.InstagramID != "" {
		lead, err := r.Repo.FindByChannel(ctx, studioID, entity.ChannelInstagram, ids.InstagramID)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			return &ResolveResult{Lead: lead, MatchedBy: entity.ChannelInstagram}, nil
		}
	}

	if ids.BrowserFingerprint != "" {
		lead, err := r.Repo.FindByChannel(ctx, studioID, entity.ChannelFingerprint, ids.BrowserFingerprint)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			return &ResolveResult{Lead: lead, MatchedBy: entity.ChannelFingerprint}, nil
		}
	}

	// whatsapp e email são canais de "merge": um lead visto antes só no
	// Instagram e agora no widget web vira um registro único aqui.
	for _, ch := range []entity.Channel{entity.ChannelWhatsapp, entity.ChannelEmail} {
		value := ids.Whatsapp
		if ch == entity.ChannelEmail {
			value = ids.Email
		}
		if value == "" {
			continue
		}

		lead, err := r.Repo.FindByChannel(ctx, studioID, ch, value)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			continue
		}

		merged := r.mergeChannelIDs(ctx, lead, ids)
		return &ResolveResult{Lead: lead, MatchedBy: ch, Merged: merged}, nil
	}

	return &ResolveResult{IsNew: true}, nil
}

// mergeChannelIDs preenche instagram_id/browser_fingerprint que o lead ainda
// não tem. Só preenche campo vazio, então rodar duas vezes com os mesmos
// inputs dá no mesmo. Falha aqui não bloqueia a conversa: o lead já foi
// achado, o merge é enriquecimento.
func (r *LeadResolver) mergeChannelIDs(ctx context.Context, lead *entity.Lead, ids entity.Identifiers) bool {
	fillInstagram := ids.InstagramID != "" && lead.InstagramID == ""
	fillFingerprint := ids.BrowserFingerprint != "" && lead.BrowserFingerprint == ""
	if !fillInstagram && !fillFingerprint {
		return false
	}

	instagramID := ""
	if fillInstagram {
		instagramID = ids.InstagramID
	}
	fingerprint := ""
	if fillFingerprint {
		fingerprint = ids.BrowserFingerprint
	}

	if err := r.Repo.MergeChannelIDs(ctx, lead.StudioID, lead.ID, instagramID, fingerprint); err != nil {
		log.Printf("⚠️ Merge de identificadores falhou para lead %s: %v", lead.ID, err)
		return false
	}

	if fillInstagram {
		lead.InstagramID = ids.InstagramID
	}
	if fillFingerprint {
		lead.BrowserFingerprint = ids.BrowserFingerprint
	}
	return true
}
