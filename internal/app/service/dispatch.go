package service

import (
	"context"
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"github.com/sehyunahn/seum-backend/pkg/push/fcm"
)

// deliveryTarget 발송 대상 하나: 토큰과 그 수신자의 현재 배지 숫자
type deliveryTarget struct {
	Token string
	Badge int
}

// deliveryJob 한 번의 팬아웃에서 만들어진 발송 묶음
type deliveryJob struct {
	Targets      []deliveryTarget
	Notification fcm.Notification
	Data         map[string]string
}

// PushDispatcher 푸시 발송 백그라운드 큐.
// HTTP 응답을 지연시키지 않도록 팬아웃의 DB 단계가 끝난 뒤 잡을 큐에
// 넘기고, 워커 고루틴 하나가 순서대로 발송한다. 개별 발송 실패는
// 집계만 하고 전파하지 않으며, 영구 무효 토큰만 정리 대상으로 넘긴다.
type PushDispatcher struct {
	client   *fcm.Client
	userRepo repository.UserRepository
	queue    chan *deliveryJob
	done     chan struct{}
}

// NewPushDispatcher 발송 큐 생성
func NewPushDispatcher(client *fcm.Client, userRepo repository.UserRepository) *PushDispatcher {
	return &PushDispatcher{
		client:   client,
		userRepo: userRepo,
		queue:    make(chan *deliveryJob, 256),
		done:     make(chan struct{}),
	}
}

// Start 워커 고루틴 시작
func (d *PushDispatcher) Start() {
	go d.run()
}

// Stop 큐를 닫고 남은 잡 처리가 끝나기를 기다린다
func (d *PushDispatcher) Stop() {
	close(d.queue)
	<-d.done
}

// Enqueue 발송 잡 등록. 큐가 가득 차면 잡을 버리고 로그만 남긴다 -
// 알림 발송은 최선 노력(best-effort)이고 요청 처리를 막으면 안 된다.
func (d *PushDispatcher) Enqueue(job *deliveryJob) {
	select {
	case d.queue <- job:
	default:
		logger.Warn("Push dispatch queue full, dropping job", map[string]interface{}{
			"targets": len(job.Targets),
		})
	}
}

func (d *PushDispatcher) run() {
	defer close(d.done)

	for job := range d.queue {
		d.deliver(job)
	}
}

func (d *PushDispatcher) deliver(job *deliveryJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokens := make([]string, len(job.Targets))
	badges := make([]int, len(job.Targets))
	for i, target := range job.Targets {
		tokens[i] = target.Token
		badges[i] = target.Badge
	}

	result := d.client.SendToTokens(ctx, tokens, badges, job.Notification, job.Data)

	logger.Info("Push batch delivered", map[string]interface{}{
		"success": result.Success,
		"failure": result.Failure,
		"invalid": len(result.InvalidTokens),
	})

	// 영구 무효 토큰 정리는 기회주의적이다: 실패해도 전파하지 않는다
	for _, token := range result.InvalidTokens {
		if err := d.userRepo.ClearPushTokenByValue(token); err != nil {
			logger.Warn("Failed to clear invalid push token", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
